package database

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/podcast-feeds/app/podcast"
)

var _ podcast.CatalogLookup = (*Catalog)(nil)

// Catalog exposes stored shows as storage-independent podcast records.
type Catalog struct {
	showRepo    ShowRepository
	episodeRepo EpisodeRepository
}

func NewCatalog(showRepo ShowRepository, episodeRepo EpisodeRepository) *Catalog {
	return &Catalog{
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
	}
}

func (c *Catalog) FetchShowWithEpisodes(ctx context.Context, idOrSlug string, now time.Time) (podcast.ShowRecord, []podcast.EpisodeRecord, error) {
	show, err := c.showRepo.GetShow(ctx, idOrSlug)
	if err != nil {
		return podcast.ShowRecord{}, nil, err
	}
	if show == nil {
		return podcast.ShowRecord{}, nil, fmt.Errorf("%w: %s", podcast.ErrShowNotFound, idOrSlug)
	}

	episodes, err := c.episodeRepo.GetPublishedEpisodes(ctx, show.ID, now)
	if err != nil {
		return podcast.ShowRecord{}, nil, err
	}

	records := make([]podcast.EpisodeRecord, 0, len(episodes))
	for _, episode := range episodes {
		records = append(records, toEpisodeRecord(episode))
	}

	return toShowRecord(*show), records, nil
}

func toShowRecord(show Show) podcast.ShowRecord {
	record := podcast.ShowRecord{
		ID:              show.ID,
		Slug:            show.Slug,
		Name:            show.Name,
		LongDescription: show.LongDescription,
		Image:           show.Image,
		Language:        show.Language,
		Category:        show.Category,
		Subcategory:     show.Subcategory,
		Website:         show.Website,
		Copyright:       show.Copyright,
		Type:            podcast.ShowType(show.Type),
		IsExplicit:      show.IsExplicit,
		IsBlocked:       show.IsBlocked,
		IsComplete:      show.IsComplete,
	}

	if show.Author != nil {
		record.Author = &podcast.AuthorRecord{
			ID:    show.Author.ID,
			Name:  show.Author.Name,
			Email: show.Author.Email,
		}
	}

	return record
}

func toEpisodeRecord(episode Episode) podcast.EpisodeRecord {
	record := podcast.EpisodeRecord{
		ID:              episode.ID,
		GUID:            episode.GUID,
		Title:           episode.Title,
		Notes:           episode.Notes,
		EpisodeNumber:   episode.EpisodeNumber,
		SeasonNumber:    episode.SeasonNumber,
		Type:            podcast.EpisodeType(episode.Type),
		IsBlocked:       episode.IsBlocked,
		PublicationDate: episode.PublicationDate,
		Duration:        episode.Duration,
		Link:            episode.Link,
		Image:           episode.Image,
		IsExplicit:      episode.IsExplicit,
	}

	for _, file := range episode.Files {
		record.Enclosures = append(record.Enclosures, podcast.EnclosureRecord{
			URL:    file.URL,
			Length: file.Length,
			Type:   file.Type,
		})
	}

	return record
}
