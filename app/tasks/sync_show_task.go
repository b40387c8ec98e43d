package tasks

import (
	"context"
	"fmt"

	"github.com/lysyi3m/podcast-feeds/app/database"
	"github.com/lysyi3m/podcast-feeds/app/shows"
)

// SyncShowTask makes the catalog match one show definition: author, show,
// episodes, and removal of defined episodes no longer in the file.
type SyncShowTask struct {
	Task
	authorRepo  database.AuthorRepository
	showRepo    database.ShowRepository
	episodeRepo database.EpisodeRepository
}

func NewSyncShowTask(showConfig *shows.Config, authorRepo database.AuthorRepository,
	showRepo database.ShowRepository, episodeRepo database.EpisodeRepository) *SyncShowTask {
	return &SyncShowTask{
		Task:        NewTask(TaskTypeSyncShow, showConfig),
		authorRepo:  authorRepo,
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
	}
}

func (t *SyncShowTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var authorID *int64
	if author := t.Show.Author; author != nil {
		id, err := t.authorRepo.UpsertAuthor(ctx, author.Name, author.Email)
		if err != nil {
			return fmt.Errorf("failed to sync author: %w", err)
		}
		authorID = &id
	}

	showID, err := t.showRepo.UpsertShow(ctx, toShow(t.Show, authorID))
	if err != nil {
		return fmt.Errorf("failed to sync show: %w", err)
	}

	for _, episode := range t.Show.Episodes {
		if err := t.episodeRepo.UpsertEpisode(ctx, showID, toEpisode(episode, database.EpisodeSourceDefined)); err != nil {
			return fmt.Errorf("failed to sync episode %s: %w", episode.GUID, err)
		}
	}

	removed, err := t.episodeRepo.DeleteDefinedEpisodesExcept(ctx, showID, t.definedGUIDs())
	if err != nil {
		return fmt.Errorf("failed to remove deleted episodes: %w", err)
	}

	t.logCompleted("episodes", len(t.Show.Episodes), "removed", removed)

	return nil
}

func toShow(c *shows.Config, authorID *int64) database.Show {
	return database.Show{
		Slug:            c.Slug,
		Name:            c.Name,
		LongDescription: c.Description,
		Image:           c.Image,
		Language:        c.Language,
		Category:        c.Category,
		Subcategory:     c.Subcategory,
		Website:         c.Website,
		Copyright:       c.Copyright,
		Type:            c.Type,
		IsExplicit:      c.Explicit,
		IsBlocked:       c.Blocked,
		IsComplete:      c.Complete,
		AuthorID:        authorID,
	}
}

func toEpisode(e shows.EpisodeConfig, source string) database.Episode {
	files := make([]database.EpisodeFile, 0, len(e.Files))
	for _, f := range e.Files {
		files = append(files, database.EpisodeFile{URL: f.URL, Length: f.Length, Type: f.Type})
	}

	return database.Episode{
		GUID:            e.GUID,
		Title:           e.Title,
		Notes:           e.Notes,
		EpisodeNumber:   e.Number,
		SeasonNumber:    e.Season,
		Type:            e.Type,
		IsBlocked:       e.Blocked,
		PublicationDate: e.Published,
		Duration:        e.Duration,
		Link:            e.Link,
		Image:           e.Image,
		IsExplicit:      e.Explicit,
		Source:          source,
		Files:           files,
	}
}
