package database

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type EpisodeRepo struct {
	db *DB
}

func NewEpisodeRepository(db *DB) *EpisodeRepo {
	return &EpisodeRepo{db: db}
}

// UpsertEpisode stores an episode keyed by (show, guid) and replaces its files
func (r *EpisodeRepo) UpsertEpisode(ctx context.Context, showID int64, episode Episode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var episodeID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO episodes (
			show_id, guid, title, notes, episode_number, season_number, type,
			is_blocked, publication_date, duration, link, image, is_explicit, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (show_id, guid) DO UPDATE SET
			title = excluded.title,
			notes = excluded.notes,
			episode_number = excluded.episode_number,
			season_number = excluded.season_number,
			type = excluded.type,
			is_blocked = excluded.is_blocked,
			publication_date = excluded.publication_date,
			duration = excluded.duration,
			link = excluded.link,
			image = excluded.image,
			is_explicit = excluded.is_explicit,
			source = excluded.source,
			updated_at = CAST(strftime('%s', 'now') AS INTEGER)
		RETURNING id
	`, showID, episode.GUID, episode.Title, episode.Notes, toNullInt(episode.EpisodeNumber), toNullInt(episode.SeasonNumber),
		episode.Type, episode.IsBlocked, episode.PublicationDate.Unix(), toNullInt(episode.Duration),
		episode.Link, episode.Image, episode.IsExplicit, cmp.Or(episode.Source, EpisodeSourceDefined)).Scan(&episodeID)
	if err != nil {
		return fmt.Errorf("failed to upsert episode: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM episode_files WHERE episode_id = ?`, episodeID); err != nil {
		return fmt.Errorf("failed to clear episode files: %w", err)
	}

	for position, file := range episode.Files {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO episode_files (episode_id, position, url, length, type)
			VALUES (?, ?, ?, ?, ?)
		`, episodeID, position, file.URL, file.Length, file.Type)
		if err != nil {
			return fmt.Errorf("failed to store episode file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit episode: %w", err)
	}

	return nil
}

// GetPublishedEpisodes returns episodes published at or before now, newest first
func (r *EpisodeRepo) GetPublishedEpisodes(ctx context.Context, showID int64, now time.Time) ([]Episode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, show_id, guid, title, notes, episode_number, season_number, type,
		       is_blocked, publication_date, duration, link, image, is_explicit, source
		FROM episodes
		WHERE show_id = ?
		  AND publication_date <= ?
		ORDER BY publication_date DESC, id DESC
	`, showID, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to get published episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	index := make(map[int64]int)
	for rows.Next() {
		var (
			episode       Episode
			episodeNumber sql.NullInt64
			seasonNumber  sql.NullInt64
			duration      sql.NullInt64
			published     int64
		)

		err := rows.Scan(
			&episode.ID, &episode.ShowID, &episode.GUID, &episode.Title, &episode.Notes,
			&episodeNumber, &seasonNumber, &episode.Type, &episode.IsBlocked, &published,
			&duration, &episode.Link, &episode.Image, &episode.IsExplicit, &episode.Source,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}

		episode.PublicationDate = time.Unix(published, 0).UTC()
		episode.EpisodeNumber = nullableInt(episodeNumber)
		episode.SeasonNumber = nullableInt(seasonNumber)
		episode.Duration = nullableInt(duration)

		index[episode.ID] = len(episodes)
		episodes = append(episodes, episode)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating episode rows: %w", err)
	}
	rows.Close()

	if len(episodes) == 0 {
		return episodes, nil
	}

	if err := r.attachFiles(ctx, showID, now, episodes, index); err != nil {
		return nil, err
	}

	return episodes, nil
}

func (r *EpisodeRepo) attachFiles(ctx context.Context, showID int64, now time.Time, episodes []Episode, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.episode_id, f.url, f.length, f.type
		FROM episode_files f
		JOIN episodes e ON e.id = f.episode_id
		WHERE e.show_id = ?
		  AND e.publication_date <= ?
		ORDER BY f.episode_id, f.position
	`, showID, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to get episode files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			episodeID int64
			file      EpisodeFile
		)
		if err := rows.Scan(&episodeID, &file.URL, &file.Length, &file.Type); err != nil {
			return fmt.Errorf("failed to scan episode file row: %w", err)
		}

		if i, ok := index[episodeID]; ok {
			episodes[i].Files = append(episodes[i].Files, file)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating episode file rows: %w", err)
	}

	return nil
}

// DeleteDefinedEpisodesExcept removes defined episodes of a show whose GUID is not
// in guids. Imported episodes are kept. Files go with them via ON DELETE CASCADE.
func (r *EpisodeRepo) DeleteDefinedEpisodesExcept(ctx context.Context, showID int64, guids []string) (int64, error) {
	query := "DELETE FROM episodes WHERE show_id = ? AND source = ?"
	args := []any{showID, EpisodeSourceDefined}

	if len(guids) > 0 {
		query += " AND guid NOT IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(guids)), ", ") + ")"
		for _, guid := range guids {
			args = append(args, guid)
		}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete removed episodes: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted episodes: %w", err)
	}
	return deleted, nil
}

func (r *EpisodeRepo) GetEpisodeCount(ctx context.Context, showID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM episodes WHERE show_id = ?", showID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get episode count: %w", err)
	}
	return count, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
