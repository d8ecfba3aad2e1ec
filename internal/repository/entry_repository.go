package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	journal "io.winapps.traveljournal/internal/models/journal"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var entryColumns = []string{
	"id::text", "user_id", "title", "location", "description", "cover_image", "gallery", "created_at",
}

// EntryRepository stores journal entries in the journals table.
type EntryRepository struct {
	db DB
}

func NewEntryRepository(db DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// List returns entries newest first, filtered by owner unless ownerID is empty.
func (r *EntryRepository) List(ctx context.Context, ownerID string) ([]journal.Entry, error) {
	query, args, err := listQuery(ownerID)
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	list := []journal.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return list, nil
}

// Get fetches one entry by id regardless of owner.
func (r *EntryRepository) Get(ctx context.Context, id string) (journal.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return journal.Entry{}, journal.ErrNotFound
	}

	query, args, err := psql.Select(entryColumns...).From("journals").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return journal.Entry{}, fmt.Errorf("build get query: %w", err)
	}

	e, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return journal.Entry{}, journal.ErrNotFound
		}
		return journal.Entry{}, fmt.Errorf("scan entry: %w", err)
	}
	return e, nil
}

// Insert creates a row and returns it with the store assigned id and created_at.
func (r *EntryRepository) Insert(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	query, args, err := insertQuery(e)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("build insert query: %w", err)
	}

	created, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return journal.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return created, nil
}

// Update replaces the patched fields of a row owned by ownerID.
func (r *EntryRepository) Update(ctx context.Context, id, ownerID string, p journal.Patch) (journal.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return journal.Entry{}, journal.ErrNotFound
	}

	var (
		query string
		args  []any
		err   error
	)
	if p.IsEmpty() {
		query, args, err = psql.Select(entryColumns...).From("journals").
			Where(sq.Eq{"id": id, "user_id": ownerID}).ToSql()
	} else {
		query, args, err = updateQuery(id, ownerID, p)
	}
	if err != nil {
		return journal.Entry{}, fmt.Errorf("build update query: %w", err)
	}

	updated, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return journal.Entry{}, journal.ErrNotFound
		}
		return journal.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	return updated, nil
}

// Delete removes a row owned by ownerID.
func (r *EntryRepository) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return journal.ErrNotFound
	}

	query, args, err := psql.Delete("journals").Where(sq.Eq{"id": id, "user_id": ownerID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return journal.ErrNotFound
	}
	return nil
}

func listQuery(ownerID string) (string, []any, error) {
	b := psql.Select(entryColumns...).From("journals").OrderBy("created_at DESC")
	if ownerID != "" {
		b = b.Where(sq.Eq{"user_id": ownerID})
	}
	return b.ToSql()
}

func insertQuery(e journal.Entry) (string, []any, error) {
	gallery := e.Gallery
	if gallery == nil {
		gallery = []string{}
	}
	return psql.Insert("journals").
		Columns("user_id", "title", "location", "description", "cover_image", "gallery").
		Values(e.OwnerID, e.Title, e.Location, e.Description, e.CoverImage, gallery).
		Suffix("RETURNING " + strings.Join(entryColumns, ", ")).
		ToSql()
}

func updateQuery(id, ownerID string, p journal.Patch) (string, []any, error) {
	set := map[string]any{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	switch {
	case p.ClearCover:
		set["cover_image"] = nil
	case p.CoverImage != nil:
		set["cover_image"] = *p.CoverImage
	}
	if p.Gallery != nil {
		gallery := *p.Gallery
		if gallery == nil {
			gallery = []string{}
		}
		set["gallery"] = gallery
	}

	return psql.Update("journals").
		SetMap(set).
		Where(sq.Eq{"id": id, "user_id": ownerID}).
		Suffix("RETURNING " + strings.Join(entryColumns, ", ")).
		ToSql()
}

func scanEntry(row pgx.Row) (journal.Entry, error) {
	var e journal.Entry
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Title,
		&e.Location,
		&e.Description,
		&e.CoverImage,
		&e.Gallery,
		&e.CreatedAt,
	)
	if e.Gallery == nil {
		e.Gallery = []string{}
	}
	return e, err
}
