package database

import (
	"context"
	"time"
)

type AuthorRepository interface {
	UpsertAuthor(ctx context.Context, name, email string) (int64, error)
}

type ShowRepository interface {
	GetShow(ctx context.Context, idOrSlug string) (*Show, error)
	ListShows(ctx context.Context) ([]Show, error)
	GetShowCount(ctx context.Context) (int, error)

	UpsertShow(ctx context.Context, show Show) (int64, error)
}

type EpisodeRepository interface {
	GetPublishedEpisodes(ctx context.Context, showID int64, now time.Time) ([]Episode, error)
	GetEpisodeCount(ctx context.Context, showID int64) (int, error)

	UpsertEpisode(ctx context.Context, showID int64, episode Episode) error
	DeleteDefinedEpisodesExcept(ctx context.Context, showID int64, guids []string) (int64, error)
}

var (
	_ AuthorRepository  = (*AuthorRepo)(nil)
	_ ShowRepository    = (*ShowRepo)(nil)
	_ EpisodeRepository = (*EpisodeRepo)(nil)
)
