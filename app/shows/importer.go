package shows

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/lysyi3m/podcast-feeds/app/podcast"
)

// Importer converts an existing podcast feed into episode definitions.
type Importer struct {
	gofeedParser *gofeed.Parser
}

func NewImporter() *Importer {
	return &Importer{
		gofeedParser: gofeed.NewParser(),
	}
}

func (im *Importer) Run(data []byte) ([]EpisodeConfig, error) {
	feed, err := im.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	episodes := make([]EpisodeConfig, 0, len(feed.Items))
	for _, item := range feed.Items {
		episode, ok := im.normalizeItem(item)
		if !ok {
			continue
		}
		applyEpisodeDefaults(&episode)
		episodes = append(episodes, episode)
	}

	return episodes, nil
}

func (im *Importer) normalizeItem(item *gofeed.Item) (EpisodeConfig, bool) {
	episode := EpisodeConfig{
		Title: item.Title,
		Notes: cmp.Or(item.Content, item.Description),
		Link:  item.Link,
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		if len(episode.Files) > 0 {
			slog.Warn("Imported item has more than one enclosure, keeping the first", "title", item.Title, "guid", item.GUID, "dropped", enclosure.URL)
			continue
		}
		file := FileConfig{URL: enclosure.URL, Type: enclosure.Type}
		if length, err := strconv.ParseInt(strings.TrimSpace(enclosure.Length), 10, 64); err == nil {
			file.Length = length
		}
		episode.Files = append(episode.Files, file)
	}

	var firstFile string
	if len(episode.Files) > 0 {
		firstFile = episode.Files[0].URL
	}
	episode.GUID = cmp.Or(item.GUID, item.Link, firstFile)

	if item.PublishedParsed == nil || episode.GUID == "" || episode.Title == "" {
		slog.Warn("Skipping imported item without guid, title or publication date", "title", item.Title, "guid", item.GUID)
		return EpisodeConfig{}, false
	}
	episode.Published = item.PublishedParsed.UTC()

	if item.Image != nil {
		episode.Image = item.Image.URL
	}

	if ext := item.ITunesExt; ext != nil {
		episode.Image = cmp.Or(ext.Image, episode.Image)
		episode.Explicit = parseExplicit(ext.Explicit)
		episode.Blocked = strings.EqualFold(strings.TrimSpace(ext.Block), "yes")
		episode.Number = parsePositive(ext.Episode)
		episode.Season = parsePositive(ext.Season)

		if duration, ok := ParseDuration(ext.Duration); ok {
			episode.Duration = &duration
		}

		episodeType := podcast.EpisodeType(strings.ToLower(strings.TrimSpace(ext.EpisodeType)))
		if episodeType.Valid() {
			episode.Type = string(episodeType)
		}
	}

	return episode, true
}

// ParseDuration accepts SS, MM:SS and HH:MM:SS and returns whole seconds.
func ParseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}

	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, false
		}
		if i > 0 && n >= 60 {
			return 0, false
		}
		if total > (math.MaxInt-n)/60 {
			return 0, false
		}
		total = total*60 + n
	}

	if total == 0 {
		return 0, false
	}
	return total, true
}

func parseExplicit(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "explicit":
		return true
	}
	return false
}

func parsePositive(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}
