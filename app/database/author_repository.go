package database

import (
	"context"
	"fmt"
)

type AuthorRepo struct {
	db *DB
}

func NewAuthorRepository(db *DB) *AuthorRepo {
	return &AuthorRepo{db: db}
}

// UpsertAuthor inserts an author or renames the existing one with the same email
func (r *AuthorRepo) UpsertAuthor(ctx context.Context, name, email string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO authors (name, email)
		VALUES (?, ?)
		ON CONFLICT (email) DO UPDATE SET name = excluded.name
		RETURNING id
	`, name, email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert author: %w", err)
	}

	return id, nil
}
