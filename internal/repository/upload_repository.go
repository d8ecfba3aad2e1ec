package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	journal "io.winapps.traveljournal/internal/models/journal"
)

const unreferenced = `NOT EXISTS (
	SELECT 1 FROM journals j
	WHERE j.cover_image = u.url OR u.url = ANY(j.gallery)
)`

// UploadRepository is the ledger of objects written to storage.
type UploadRepository struct {
	db DB
}

func NewUploadRepository(db DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Record adds an upload to the ledger. Recording the same key twice is a no-op.
func (r *UploadRepository) Record(ctx context.Context, u journal.Upload) error {
	query, args, err := psql.Insert("uploads").
		Columns("object_key", "url", "user_id", "content_type", "file_size").
		Values(u.Key, u.URL, u.OwnerID, u.ContentType, u.Size).
		Suffix("ON CONFLICT (object_key) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build record query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return nil
}

// Orphans lists uploads older than before that no journal references.
func (r *UploadRepository) Orphans(ctx context.Context, before time.Time, limit uint64) ([]journal.Upload, error) {
	query, args, err := orphansQuery(before, limit)
	if err != nil {
		return nil, fmt.Errorf("build orphans query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orphans: %w", err)
	}
	defer rows.Close()

	var out []journal.Upload
	for rows.Next() {
		var (
			u           journal.Upload
			contentType *string
			size        *int64
		)
		if err := rows.Scan(&u.Key, &u.URL, &u.OwnerID, &contentType, &size, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		if contentType != nil {
			u.ContentType = *contentType
		}
		if size != nil {
			u.Size = *size
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Forget removes a ledger row once its object is gone.
func (r *UploadRepository) Forget(ctx context.Context, key string) error {
	query, args, err := psql.Delete("uploads").Where(sq.Eq{"object_key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build forget query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("forget upload: %w", err)
	}
	return nil
}

func orphansQuery(before time.Time, limit uint64) (string, []any, error) {
	b := psql.Select("u.object_key", "u.url", "u.user_id", "u.content_type", "u.file_size", "u.created_at").
		From("uploads u").
		Where(sq.Lt{"u.created_at": before}).
		Where(unreferenced).
		OrderBy("u.created_at")
	if limit > 0 {
		b = b.Limit(limit)
	}
	return b.ToSql()
}
