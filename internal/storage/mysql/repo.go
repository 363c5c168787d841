package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"review_insights/internal/domain"
)

// MaxBatch bounds the rows per multi-value INSERT.
const MaxBatch = 500

// Repo stages raw origin rows. It implements domain.RawRowStore.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// execer is the part of *sql.DB and *sql.Tx the write path needs.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertRawRows writes rows with indexes offset, offset+1, ... in batches.
func (r *Repo) UpsertRawRows(ctx context.Context, origin string, offset int, rows []domain.RawRow) error {
	return upsertRows(ctx, r.db, origin, offset, rows)
}

// ReplaceOrigin swaps an origin's staged rows for rows in one transaction.
// On any failure the previous rows stay in place.
func (r *Repo) ReplaceOrigin(ctx context.Context, origin string, rows []domain.RawRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace %s: %w", origin, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, deleteOriginSQL, origin); err != nil {
		return fmt.Errorf("clear %s: %w", origin, err)
	}
	if err := upsertRows(ctx, tx, origin, 0, rows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s: %w", origin, err)
	}
	return nil
}

func upsertRows(ctx context.Context, ex execer, origin string, offset int, rows []domain.RawRow) error {
	for start := 0; start < len(rows); start += MaxBatch {
		end := min(start+MaxBatch, len(rows))
		if err := upsertBatch(ctx, ex, origin, offset+start, rows[start:end]); err != nil {
			return fmt.Errorf("upsert %s rows %d-%d: %w", origin, offset+start, offset+end-1, err)
		}
	}
	return nil
}

func upsertBatch(ctx context.Context, ex execer, origin string, offset int, rows []domain.RawRow) error {
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*3)
	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return err
		}
		values = append(values, "(?,?,?)")
		args = append(args, origin, offset+i, string(payload))
	}
	sqlStr := upsertRawRowsPrefix + strings.Join(values, ",") + upsertRawRowsOnDup
	_, err := ex.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) DeleteOrigin(ctx context.Context, origin string) error {
	_, err := r.db.ExecContext(ctx, deleteOriginSQL, origin)
	return err
}

// Load implements domain.SourceIngestor. An origin with no staged rows
// yields an empty slice.
func (r *Repo) Load(ctx context.Context, origin string) ([]domain.RawRow, error) {
	rows, err := r.db.QueryContext(ctx, loadOriginSQL, origin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawRow
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var row domain.RawRow
		if err := json.Unmarshal(payload, &row); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", origin, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
