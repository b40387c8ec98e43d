package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const showColumns = `
	s.id, s.slug, s.name, s.long_description, s.image, s.language,
	s.category, s.subcategory, s.website, s.copyright, s.type,
	s.is_explicit, s.is_blocked, s.is_complete, s.author_id, s.updated_at,
	a.id, a.name, a.email`

type ShowRepo struct {
	db *DB
}

func NewShowRepository(db *DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// UpsertShow inserts or updates a show keyed by slug and returns its ID
func (r *ShowRepo) UpsertShow(ctx context.Context, show Show) (int64, error) {
	var authorID sql.NullInt64
	if show.AuthorID != nil {
		authorID = sql.NullInt64{Int64: *show.AuthorID, Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shows (
			slug, name, long_description, image, language, category, subcategory,
			website, copyright, type, is_explicit, is_blocked, is_complete, author_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			name = excluded.name,
			long_description = excluded.long_description,
			image = excluded.image,
			language = excluded.language,
			category = excluded.category,
			subcategory = excluded.subcategory,
			website = excluded.website,
			copyright = excluded.copyright,
			type = excluded.type,
			is_explicit = excluded.is_explicit,
			is_blocked = excluded.is_blocked,
			is_complete = excluded.is_complete,
			author_id = excluded.author_id,
			updated_at = CAST(strftime('%s', 'now') AS INTEGER)
		RETURNING id
	`, show.Slug, show.Name, show.LongDescription, show.Image, show.Language,
		show.Category, show.Subcategory, show.Website, show.Copyright, show.Type,
		show.IsExplicit, show.IsBlocked, show.IsComplete, authorID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert show: %w", err)
	}

	return id, nil
}

// GetShow resolves a numeric ID or a slug. It returns nil when no show matches.
func (r *ShowRepo) GetShow(ctx context.Context, idOrSlug string) (*Show, error) {
	query := `SELECT ` + showColumns + `
		FROM shows s
		LEFT JOIN authors a ON a.id = s.author_id
		WHERE s.slug = ?`
	var arg any = idOrSlug

	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		query = `SELECT ` + showColumns + `
		FROM shows s
		LEFT JOIN authors a ON a.id = s.author_id
		WHERE s.id = ?`
		arg = id
	}

	show, err := scanShow(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}

	return show, nil
}

func (r *ShowRepo) ListShows(ctx context.Context) ([]Show, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+showColumns+`
		FROM shows s
		LEFT JOIN authors a ON a.id = s.author_id
		ORDER BY s.slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	defer rows.Close()

	var shows []Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show row: %w", err)
		}
		shows = append(shows, *show)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating show rows: %w", err)
	}

	return shows, nil
}

func (r *ShowRepo) GetShowCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shows").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get show count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (*Show, error) {
	var (
		show        Show
		authorID    sql.NullInt64
		updatedAt   int64
		joinedID    sql.NullInt64
		authorName  sql.NullString
		authorEmail sql.NullString
	)

	err := row.Scan(
		&show.ID, &show.Slug, &show.Name, &show.LongDescription, &show.Image, &show.Language,
		&show.Category, &show.Subcategory, &show.Website, &show.Copyright, &show.Type,
		&show.IsExplicit, &show.IsBlocked, &show.IsComplete, &authorID, &updatedAt,
		&joinedID, &authorName, &authorEmail,
	)
	if err != nil {
		return nil, err
	}

	show.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	if authorID.Valid {
		id := authorID.Int64
		show.AuthorID = &id
	}

	if joinedID.Valid {
		show.Author = &Author{
			ID:    joinedID.Int64,
			Name:  authorName.String,
			Email: authorEmail.String,
		}
	}

	return &show, nil
}
