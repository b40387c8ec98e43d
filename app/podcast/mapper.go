package podcast

import (
	"fmt"
)

type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) Run(show ShowRecord, episodes []EpisodeRecord) (FeedMetadata, []FeedItem, error) {
	meta, err := m.mapShow(show)
	if err != nil {
		return FeedMetadata{}, nil, err
	}

	items := make([]FeedItem, 0, len(episodes))
	for _, episode := range episodes {
		item, err := m.mapEpisode(episode)
		if err != nil {
			return FeedMetadata{}, nil, err
		}
		items = append(items, item)
	}

	return meta, items, nil
}

func (m *Mapper) mapShow(show ShowRecord) (FeedMetadata, error) {
	if show.Author == nil {
		return FeedMetadata{}, &MissingAuthorError{Show: show.Slug}
	}

	if !show.Type.Valid() {
		return FeedMetadata{}, fmt.Errorf("%w: show %q has type %q", ErrInvalidRecord, show.Slug, show.Type)
	}

	meta := FeedMetadata{
		Title:       show.Name,
		Description: show.LongDescription,
		Language:    show.Language,
		Explicit:    show.IsExplicit,
		Image:       show.Image,
		Category:    show.Category,
		Subcategory: show.Subcategory,
		Author: Author{
			Name:  show.Author.Name,
			Email: show.Author.Email,
		},
		Link:     show.Website,
		Type:     string(show.Type),
		Block:    show.IsBlocked,
		Complete: show.IsComplete,
	}

	if show.Copyright != "" {
		copyright := show.Copyright
		meta.Copyright = &copyright
	}

	return meta, nil
}

func (m *Mapper) mapEpisode(episode EpisodeRecord) (FeedItem, error) {
	if !episode.Type.Valid() {
		return FeedItem{}, fmt.Errorf("%w: episode %q has type %q", ErrInvalidRecord, episode.GUID, episode.Type)
	}

	item := FeedItem{
		Title:       episode.Title,
		Description: episode.Notes,
		GUID:        episode.GUID,
		PubDate:     episode.PublicationDate,
		Duration:    positive(episode.Duration),
		Link:        episode.Link,
		Image:       episode.Image,
		Explicit:    episode.IsExplicit,
		EpisodeType: string(episode.Type),
		Episode:     positive(episode.EpisodeNumber),
		Season:      positive(episode.SeasonNumber),
		Block:       episode.IsBlocked,
	}

	if len(episode.Enclosures) > 0 {
		item.Enclosures = make([]Enclosure, 0, len(episode.Enclosures))
		for _, enclosure := range episode.Enclosures {
			item.Enclosures = append(item.Enclosures, Enclosure{
				URL:    enclosure.URL,
				Length: enclosure.Length,
				Type:   enclosure.Type,
			})
		}
	}

	return item, nil
}

// positive treats zero and negative values as absent.
func positive(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}
