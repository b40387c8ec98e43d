package podcast

import (
	"errors"
	"testing"
	"time"
)

func sampleShow() ShowRecord {
	return ShowRecord{
		ID:              1,
		Slug:            "talk",
		Name:            "Talk",
		LongDescription: "Hi",
		Image:           "https://example.com/cover.jpg",
		Language:        "en",
		Category:        "Arts",
		Website:         "https://example.com",
		Copyright:       "2024 Jane",
		Type:            ShowTypeSerial,
		IsExplicit:      true,
		IsBlocked:       true,
		IsComplete:      false,
		Author:          &AuthorRecord{ID: 3, Name: "Jane Host", Email: "jane@example.com"},
	}
}

func sampleEpisode() EpisodeRecord {
	return EpisodeRecord{
		ID:              10,
		GUID:            "talk-1",
		Title:           "Ep1",
		Notes:           "<p>Notes</p>",
		Type:            EpisodeTypeTrailer,
		Enclosures:      []EnclosureRecord{{URL: "https://example.com/ep1.mp3", Length: 1000, Type: "audio/mpeg"}},
		PublicationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Link:            "https://example.com/ep1",
	}
}

func TestMapperShow(t *testing.T) {
	meta, items, err := NewMapper().Run(sampleShow(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(items) != 0 {
		t.Errorf("Expected no items, got %d", len(items))
	}

	if meta.Title != "Talk" || meta.Description != "Hi" || meta.Language != "en" {
		t.Errorf("Unexpected text fields: %+v", meta)
	}
	if meta.Type != "serial" {
		t.Errorf("Expected type 'serial', got '%s'", meta.Type)
	}
	if !meta.Explicit || !meta.Block || meta.Complete {
		t.Errorf("Boolean flags should pass through unchanged: %+v", meta)
	}
	if meta.Author.Name != "Jane Host" || meta.Author.Email != "jane@example.com" {
		t.Errorf("Unexpected author: %+v", meta.Author)
	}
	if meta.Link != "https://example.com" {
		t.Errorf("Expected link from website, got '%s'", meta.Link)
	}
	if meta.Copyright == nil || *meta.Copyright != "2024 Jane" {
		t.Errorf("Unexpected copyright: %v", meta.Copyright)
	}
}

func TestMapperEmptyCopyright(t *testing.T) {
	show := sampleShow()
	show.Copyright = ""

	meta, _, err := NewMapper().Run(show, nil)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Copyright != nil {
		t.Errorf("Expected nil copyright, got %q", *meta.Copyright)
	}
}

func TestMapperMissingAuthor(t *testing.T) {
	show := sampleShow()
	show.Author = nil

	_, items, err := NewMapper().Run(show, []EpisodeRecord{sampleEpisode()})

	var authorErr *MissingAuthorError
	if !errors.As(err, &authorErr) {
		t.Fatalf("Expected MissingAuthorError, got: %v", err)
	}
	if authorErr.Show != "talk" {
		t.Errorf("Expected show 'talk', got '%s'", authorErr.Show)
	}
	if items != nil {
		t.Error("Expected no items on failure")
	}
}

func TestMapperEpisode(t *testing.T) {
	episode := sampleEpisode()
	episode.Duration = intPtr(1800)
	episode.EpisodeNumber = intPtr(4)
	episode.SeasonNumber = intPtr(1)
	episode.IsExplicit = true
	episode.IsBlocked = true

	_, items, err := NewMapper().Run(sampleShow(), []EpisodeRecord{episode})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	item := items[0]
	if item.GUID != "talk-1" || item.Title != "Ep1" || item.Description != "<p>Notes</p>" {
		t.Errorf("Unexpected item: %+v", item)
	}
	if item.EpisodeType != "trailer" {
		t.Errorf("Expected episode type 'trailer', got '%s'", item.EpisodeType)
	}
	if *item.Duration != 1800 || *item.Episode != 4 || *item.Season != 1 {
		t.Errorf("Unexpected numeric fields: %d %d %d", *item.Duration, *item.Episode, *item.Season)
	}
	if !item.Explicit || !item.Block {
		t.Error("Boolean flags should pass through unchanged")
	}
	if len(item.Enclosures) != 1 || item.Enclosures[0].Length != 1000 {
		t.Errorf("Unexpected enclosures: %+v", item.Enclosures)
	}
	if !item.PubDate.Equal(episode.PublicationDate) {
		t.Errorf("Unexpected pubDate: %v", item.PubDate)
	}
}

func TestMapperOmitsAbsentNumbers(t *testing.T) {
	episode := sampleEpisode()
	episode.Duration = intPtr(0)

	_, items, err := NewMapper().Run(sampleShow(), []EpisodeRecord{episode})
	if err != nil {
		t.Fatal(err)
	}

	if items[0].Duration != nil || items[0].Episode != nil || items[0].Season != nil {
		t.Errorf("Absent numbers should map to nil: %+v", items[0])
	}
}

func TestMapperPreservesOrder(t *testing.T) {
	var episodes []EpisodeRecord
	for _, guid := range []string{"c", "a", "b"} {
		episode := sampleEpisode()
		episode.GUID = guid
		episodes = append(episodes, episode)
	}

	_, items, err := NewMapper().Run(sampleShow(), episodes)
	if err != nil {
		t.Fatal(err)
	}

	for i, guid := range []string{"c", "a", "b"} {
		if items[i].GUID != guid {
			t.Errorf("Item %d: expected GUID %s, got %s", i, guid, items[i].GUID)
		}
	}
}

func TestMapperInvalidTypes(t *testing.T) {
	show := sampleShow()
	show.Type = "weekly"
	if _, _, err := NewMapper().Run(show, nil); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord for show type, got: %v", err)
	}

	episode := sampleEpisode()
	episode.Type = "teaser"
	if _, _, err := NewMapper().Run(sampleShow(), []EpisodeRecord{episode}); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Expected ErrInvalidRecord for episode type, got: %v", err)
	}
}

func TestLookupVariant(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"apple", false},
		{"spotify", false},
		{"google", true},
		{"", true},
	}

	for _, test := range tests {
		variant, err := LookupVariant(test.name)
		if test.wantErr {
			if !errors.Is(err, ErrUnknownVariant) {
				t.Errorf("For '%s', expected ErrUnknownVariant, got %v", test.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("For '%s', unexpected error: %v", test.name, err)
		}
		if variant.Name != test.name {
			t.Errorf("Expected variant '%s', got '%s'", test.name, variant.Name)
		}
		if variant.ContentType != "application/rss+xml; charset=utf-8" {
			t.Errorf("Unexpected content type: %s", variant.ContentType)
		}
	}

	if len(Variants()) != 2 {
		t.Errorf("Expected 2 variants, got %d", len(Variants()))
	}
}
