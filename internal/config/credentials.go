package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMissingCredential marks a fatal configuration error: a component was
// requested without the credential it needs.
var ErrMissingCredential = errors.New("missing required credential")

// SerpAPI holds the search-API credential.
type SerpAPI struct {
	APIKey string `validate:"required"`
}

// Supabase holds the REST credentials of the hosted store.
type Supabase struct {
	URL     string `validate:"required,url"`
	AnonKey string `validate:"required"`
}

// Postgres holds the direct database connection string.
type Postgres struct {
	URL string `validate:"required"`
}

// Credentials is read from the process environment only.
type Credentials struct {
	SerpAPI  SerpAPI
	Supabase Supabase
	Postgres Postgres
}

func LoadCredentials() Credentials {
	return Credentials{
		SerpAPI: SerpAPI{APIKey: envString("SERPAPI_KEY", "")},
		Supabase: Supabase{
			URL:     strings.TrimRight(envString("SUPABASE_URL", ""), "/"),
			AnonKey: envString("SUPABASE_ANON_KEY", ""),
		},
		Postgres: Postgres{URL: firstEnv("SUPABASE_DB_URL", "DATABASE_URL")},
	}
}

var validate = validator.New()

// Require validates one credential section. Any failure is reported as
// ErrMissingCredential naming the environment variables involved.
func Require(section any) error {
	err := validate.Struct(section)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrMissingCredential, err)
	}

	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, envName(section, fe.StructField()))
	}
	return fmt.Errorf("%w: %s", ErrMissingCredential, strings.Join(names, ", "))
}

func envName(section any, field string) string {
	switch section.(type) {
	case SerpAPI, *SerpAPI:
		return "SERPAPI_KEY"
	case Supabase, *Supabase:
		if field == "URL" {
			return "SUPABASE_URL"
		}
		return "SUPABASE_ANON_KEY"
	case Postgres, *Postgres:
		return "SUPABASE_DB_URL"
	}
	return field
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}
