package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lysyi3m/podcast-feeds/app/database"
	"github.com/lysyi3m/podcast-feeds/app/shows"
)

// Upper bound for a fetched feed body.
const maxFeedSize = 20 << 20

type ImportEpisodesTask struct {
	Task
	httpClient  *http.Client
	importer    *shows.Importer
	showRepo    database.ShowRepository
	episodeRepo database.EpisodeRepository
	userAgent   string
}

func NewImportEpisodesTask(showConfig *shows.Config, httpClient *http.Client, importer *shows.Importer,
	showRepo database.ShowRepository, episodeRepo database.EpisodeRepository, userAgent string) *ImportEpisodesTask {
	return &ImportEpisodesTask{
		Task:        NewTask(TaskTypeImportEpisodes, showConfig),
		httpClient:  httpClient,
		importer:    importer,
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
		userAgent:   userAgent,
	}
}

func (t *ImportEpisodesTask) Execute(ctx context.Context) error {
	data, err := t.fetch(ctx)
	if err != nil {
		return err
	}

	episodes, err := t.importer.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse import feed: %w", err)
	}

	show, err := t.showRepo.GetShow(ctx, t.Show.Slug)
	if err != nil {
		return fmt.Errorf("failed to get show: %w", err)
	}
	if show == nil {
		return fmt.Errorf("show %s is not synced yet", t.Show.Slug)
	}

	// Episodes defined in YAML win over imported ones.
	defined := make(map[string]bool, len(t.Show.Episodes))
	for _, guid := range t.definedGUIDs() {
		defined[guid] = true
	}

	imported := 0
	for _, episode := range episodes {
		if defined[episode.GUID] {
			continue
		}
		if err := t.episodeRepo.UpsertEpisode(ctx, show.ID, toEpisode(episode, database.EpisodeSourceImported)); err != nil {
			return fmt.Errorf("failed to import episode %s: %w", episode.GUID, err)
		}
		imported++
	}

	t.logCompleted("imported", imported, "skipped", len(episodes)-imported)

	return nil
}

func (t *ImportEpisodesTask) fetch(ctx context.Context) ([]byte, error) {
	timeout := time.Duration(t.Show.Import.Timeout) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.Show.Import.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch import feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("import feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read import feed: %w", err)
	}

	return data, nil
}
