package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"student-enrollment/internal/common/database"
)

// PostgresStore keeps every collection in one JSONB table keyed by
// (collection, id).
type PostgresStore struct {
	db    *database.PostgresClient
	table string
}

func NewPostgresStore(db *database.PostgresClient, table string) *PostgresStore {
	if table == "" {
		table = "documents"
	}
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the documents table when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		)`, p.table)

	if _, err := p.db.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	if err := validateKey(collection, key); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE collection = $1 AND id = $2`, p.table)

	var data []byte
	err := p.db.DB.QueryRowContext(ctx, query, collection, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get %s/%s: %w", collection, key, err)
	}
	return &Document{ID: key, Data: data}, nil
}

// Set upserts the document. A concurrent writer for the same key wins or
// loses by commit order.
func (p *PostgresStore) Set(ctx context.Context, collection, key string, doc Document) error {
	if err := validateKey(collection, key); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection, id, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`, p.table)

	if _, err := p.db.DB.ExecContext(ctx, query, collection, key, []byte(doc.Data)); err != nil {
		return fmt.Errorf("postgres set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context, collection string) ([]Document, error) {
	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE collection = $1 ORDER BY id`, p.table)

	rows, err := p.db.DB.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		var data []byte
		if err := rows.Scan(&doc.ID, &data); err != nil {
			return nil, fmt.Errorf("postgres list %s: scan: %w", collection, err)
		}
		doc.Data = data
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", collection, err)
	}
	return docs, nil
}

func (p *PostgresStore) ServerTime(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := p.db.DB.QueryRowContext(ctx, `SELECT NOW()`).Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("postgres server time: %w", err)
	}
	return now.UTC(), nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
