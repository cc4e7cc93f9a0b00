package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/models"
	"github.com/jimezsa/jobtrackr/internal/network"
)

// ErrEmptyInsert is returned when the REST API accepted an insert but sent
// no row back.
var ErrEmptyInsert = errors.New("insert returned no data")

// Supabase uses the PostgREST endpoint of a Supabase project.
type Supabase struct {
	client  network.Doer
	baseURL string
	apiKey  string
	table   string
}

var _ Store = (*Supabase)(nil)

// NewSupabase fails with config.ErrMissingCredential when URL or key is unset.
func NewSupabase(client network.Doer, creds config.Supabase, table string) (*Supabase, error) {
	if err := config.Require(creds); err != nil {
		return nil, err
	}
	table, err := validTable(table)
	if err != nil {
		return nil, err
	}
	return &Supabase{
		client:  client,
		baseURL: strings.TrimRight(creds.URL, "/"),
		apiKey:  creds.AnonKey,
		table:   table,
	}, nil
}

func (s *Supabase) endpoint() string {
	return s.baseURL + "/rest/v1/" + s.table
}

// Exists narrows candidates with ilike filters and confirms the match
// locally, so wildcard characters in the data cannot produce false hits.
// Candidates are not limited: a loose pattern must not push the real row
// out of the result.
func (s *Supabase) Exists(ctx context.Context, key models.IdentityKey) (bool, error) {
	values := url.Values{}
	values.Set("select", "id,title,company,location")
	values.Set("title", "ilike."+escapeLike(key.Title))
	values.Set("company", "ilike."+escapeLike(key.Company))
	values.Set("location", "ilike."+escapeLike(key.Location))

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, s.endpoint()+"?"+values.Encode(), nil)
	if err != nil {
		return false, err
	}
	s.authorize(req)

	var rows []Row
	if err := s.do(req, &rows); err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	for _, row := range rows {
		if row.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *Supabase) Insert(ctx context.Context, row Row) (Row, error) {
	row.ID = 0
	payload, err := json.Marshal(row)
	if err != nil {
		return Row{}, fmt.Errorf("encode row: %w", err)
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, s.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return Row{}, err
	}
	s.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	var rows []Row
	if err := s.do(req, &rows); err != nil {
		return Row{}, fmt.Errorf("insert job: %w", err)
	}
	if len(rows) == 0 {
		return Row{}, ErrEmptyInsert
	}
	return rows[0], nil
}

func (s *Supabase) authorize(req *fhttp.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
}

func (s *Supabase) do(req *fhttp.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, restMessage(body))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func restMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		if payload.Details != "" {
			return payload.Message + " (" + payload.Details + ")"
		}
		return payload.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// PostgREST reads "*" in a like pattern as "%". It cannot be escaped, so it
// becomes the single-character wildcard, which still matches a literal "*".
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
