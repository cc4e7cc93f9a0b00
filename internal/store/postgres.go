package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimezsa/jobtrackr/internal/config"
	"github.com/jimezsa/jobtrackr/internal/models"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres talks to the jobs table directly over a pgx pool.
type Postgres struct {
	db    querier
	pool  *pgxpool.Pool
	table string
	sb    sq.StatementBuilderType
}

var _ Store = (*Postgres)(nil)

// ConnectPostgres opens and pings a pool. A missing URL is a configuration error.
func ConnectPostgres(ctx context.Context, creds config.Postgres, table string) (*Postgres, error) {
	if err := config.Require(creds); err != nil {
		return nil, err
	}
	table, err := validTable(table)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, creds.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := newPostgres(pool, table)
	p.pool = pool
	return p, nil
}

func newPostgres(db querier, table string) *Postgres {
	return &Postgres{
		db:    db,
		table: table,
		sb:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) existsQuery(key models.IdentityKey) (string, []any, error) {
	return p.sb.Select("1").
		From(p.table).
		Where(sq.Expr("lower(title) = ?", key.Title)).
		Where(sq.Expr("lower(company) = ?", key.Company)).
		Where(sq.Expr("lower(location) = ?", key.Location)).
		Limit(1).
		ToSql()
}

func (p *Postgres) insertQuery(row Row) (string, []any, error) {
	return p.sb.Insert(p.table).
		Columns("title", "company", "location", "description", "salary", "source", "link", "posted_at", "scraped_at", "query").
		Values(
			row.Title, row.Company, row.Location, row.Description, row.Salary, row.Source, row.Link,
			sq.Expr("?::timestamptz", row.PostedAt),
			sq.Expr("?::timestamptz", row.ScrapedAt),
			row.Query,
		).
		Suffix("RETURNING id").
		ToSql()
}

func (p *Postgres) Exists(ctx context.Context, key models.IdentityKey) (bool, error) {
	query, args, err := p.existsQuery(key)
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	if err := p.db.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}

func (p *Postgres) Insert(ctx context.Context, row Row) (Row, error) {
	query, args, err := p.insertQuery(row)
	if err != nil {
		return Row{}, fmt.Errorf("build insert: %w", err)
	}

	if err := p.db.QueryRow(ctx, query, args...).Scan(&row.ID); err != nil {
		return Row{}, fmt.Errorf("insert job: %w", err)
	}
	return row, nil
}

// Migrate creates the jobs table and its identity index when missing.
// The index is not unique; concurrent runs can still insert the same key.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range SchemaStatements(p.table) {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SchemaStatements returns the DDL for table.
func SchemaStatements(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	company VARCHAR(255) NOT NULL,
	location VARCHAR(255) NOT NULL,
	salary VARCHAR(255),
	description TEXT,
	source VARCHAR(50),
	link TEXT,
	posted_at TIMESTAMPTZ,
	scraped_at TIMESTAMPTZ NOT NULL,
	query TEXT
)`, table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_identity_idx ON %s (lower(title), lower(company), lower(location))`, table, table),
	}
}
