package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lysyi3m/podcast-feeds/app/podcast"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func intPtr(v int) *int {
	return &v
}

func seedShow(t *testing.T, db *DB, withAuthor bool) int64 {
	t.Helper()
	ctx := context.Background()

	show := Show{
		Slug:            "talk",
		Name:            "Talk",
		LongDescription: "Hi",
		Image:           "https://example.com/cover.jpg",
		Category:        "Arts",
		Website:         "https://example.com",
		Type:            "episodic",
	}

	if withAuthor {
		authorID, err := NewAuthorRepository(db).UpsertAuthor(ctx, "Jane Host", "jane@example.com")
		if err != nil {
			t.Fatal(err)
		}
		show.AuthorID = &authorID
	}

	showID, err := NewShowRepository(db).UpsertShow(ctx, show)
	if err != nil {
		t.Fatal(err)
	}
	return showID
}

func TestRunMigrations(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected re-running migrations to succeed, got: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("Expected clean version 2, got %d (dirty=%v)", version, dirty)
	}
}

func TestShowRepositoryUpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewShowRepository(db)

	showID := seedShow(t, db, true)

	bySlug, err := repo.GetShow(ctx, "talk")
	if err != nil {
		t.Fatal(err)
	}
	if bySlug == nil || bySlug.ID != showID {
		t.Fatalf("Expected show %d by slug, got %+v", showID, bySlug)
	}
	if bySlug.Author == nil || bySlug.Author.Email != "jane@example.com" {
		t.Errorf("Expected joined author, got %+v", bySlug.Author)
	}

	byID, err := repo.GetShow(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if byID == nil || byID.Slug != "talk" {
		t.Errorf("Expected show by numeric ID, got %+v", byID)
	}

	updated := *bySlug
	updated.Name = "Talk Show"
	updated.IsComplete = true
	againID, err := repo.UpsertShow(ctx, updated)
	if err != nil {
		t.Fatal(err)
	}
	if againID != showID {
		t.Errorf("Expected upsert to keep ID %d, got %d", showID, againID)
	}

	reloaded, err := repo.GetShow(ctx, "talk")
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Name != "Talk Show" || !reloaded.IsComplete {
		t.Errorf("Expected updated show, got %+v", reloaded)
	}

	missing, err := repo.GetShow(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Expected nil show without error, got %+v, %v", missing, err)
	}

	count, err := repo.GetShowCount(ctx)
	if err != nil || count != 1 {
		t.Errorf("Expected 1 show, got %d (%v)", count, err)
	}
}

func TestAuthorRepositoryUpsertByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAuthorRepository(db)

	first, err := repo.UpsertAuthor(ctx, "Jane", "jane@example.com")
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.UpsertAuthor(ctx, "Jane Host", "jane@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Expected same author ID, got %d and %d", first, second)
	}
}

func TestCatalogFetchShowWithEpisodes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	showID := seedShow(t, db, true)
	episodeRepo := NewEpisodeRepository(db)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	episodes := []Episode{
		{
			GUID:            "old",
			Title:           "Old",
			Type:            "full",
			PublicationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Files:           []EpisodeFile{{URL: "https://example.com/old.mp3", Length: 100, Type: "audio/mpeg"}},
		},
		{
			GUID:            "new",
			Title:           "New",
			Type:            "bonus",
			PublicationDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Duration:        intPtr(90),
			EpisodeNumber:   intPtr(2),
			Files:           []EpisodeFile{{URL: "https://example.com/new.mp3", Length: 200, Type: "audio/mpeg"}},
		},
		{
			GUID:            "future",
			Title:           "Future",
			Type:            "full",
			PublicationDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			GUID:            "exact",
			Title:           "Exact",
			Type:            "trailer",
			PublicationDate: now,
		},
	}
	for _, episode := range episodes {
		if err := episodeRepo.UpsertEpisode(ctx, showID, episode); err != nil {
			t.Fatal(err)
		}
	}

	catalog := NewCatalog(NewShowRepository(db), episodeRepo)
	show, records, err := catalog.FetchShowWithEpisodes(ctx, "talk", now)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if show.Slug != "talk" || show.Type != podcast.ShowTypeEpisodic {
		t.Errorf("Unexpected show record: %+v", show)
	}
	if show.Author == nil || show.Author.Name != "Jane Host" {
		t.Errorf("Expected author on show record, got %+v", show.Author)
	}

	var guids []string
	for _, record := range records {
		guids = append(guids, record.GUID)
	}
	expected := []string{"exact", "new", "old"}
	if len(guids) != len(expected) {
		t.Fatalf("Expected episodes %v, got %v", expected, guids)
	}
	for i := range expected {
		if guids[i] != expected[i] {
			t.Errorf("Expected episodes %v, got %v", expected, guids)
			break
		}
	}

	newest := records[1]
	if newest.Type != podcast.EpisodeTypeBonus {
		t.Errorf("Expected bonus episode, got %s", newest.Type)
	}
	if newest.Duration == nil || *newest.Duration != 90 {
		t.Errorf("Expected duration 90, got %v", newest.Duration)
	}
	if newest.EpisodeNumber == nil || *newest.EpisodeNumber != 2 || newest.SeasonNumber != nil {
		t.Errorf("Unexpected episode/season numbers: %v %v", newest.EpisodeNumber, newest.SeasonNumber)
	}
	if len(newest.Enclosures) != 1 || newest.Enclosures[0].Length != 200 {
		t.Errorf("Unexpected enclosures: %+v", newest.Enclosures)
	}
	if !newest.PublicationDate.Equal(episodes[1].PublicationDate) {
		t.Errorf("Unexpected publication date: %v", newest.PublicationDate)
	}
	if len(records[0].Enclosures) != 0 {
		t.Errorf("Expected no enclosures for episode without files, got %+v", records[0].Enclosures)
	}
}

func TestCatalogKeepsAllEpisodeFiles(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	showID := seedShow(t, db, true)
	episodeRepo := NewEpisodeRepository(db)

	episode := Episode{
		GUID:            "dual",
		Title:           "Dual",
		Type:            "full",
		PublicationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Files: []EpisodeFile{
			{URL: "https://example.com/a.mp3", Length: 1, Type: "audio/mpeg"},
			{URL: "https://example.com/a.m4a", Length: 2, Type: "audio/x-m4a"},
		},
	}
	if err := episodeRepo.UpsertEpisode(ctx, showID, episode); err != nil {
		t.Fatal(err)
	}

	_, records, err := NewCatalog(NewShowRepository(db), episodeRepo).FetchShowWithEpisodes(ctx, "talk", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || len(records[0].Enclosures) != 2 {
		t.Fatalf("Expected one episode with two enclosures, got %+v", records)
	}
	if records[0].Enclosures[1].Type != "audio/x-m4a" {
		t.Errorf("Expected files in stored order, got %+v", records[0].Enclosures)
	}

	episode.Files = episode.Files[:1]
	if err := episodeRepo.UpsertEpisode(ctx, showID, episode); err != nil {
		t.Fatal(err)
	}
	_, records, err = NewCatalog(NewShowRepository(db), episodeRepo).FetchShowWithEpisodes(ctx, "talk", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(records[0].Enclosures) != 1 {
		t.Errorf("Expected upsert to replace files, got %+v", records[0].Enclosures)
	}
}

func TestCatalogShowWithoutAuthor(t *testing.T) {
	db := setupTestDB(t)
	seedShow(t, db, false)

	show, _, err := NewCatalog(NewShowRepository(db), NewEpisodeRepository(db)).
		FetchShowWithEpisodes(context.Background(), "talk", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if show.Author != nil {
		t.Errorf("Expected nil author, got %+v", show.Author)
	}
}

func TestCatalogShowNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := NewCatalog(NewShowRepository(db), NewEpisodeRepository(db)).
		FetchShowWithEpisodes(context.Background(), "missing", time.Now())
	if !errors.Is(err, podcast.ErrShowNotFound) {
		t.Errorf("Expected ErrShowNotFound, got: %v", err)
	}
}

func TestDeleteDefinedEpisodesExcept(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	showID := seedShow(t, db, true)
	episodeRepo := NewEpisodeRepository(db)

	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	episodes := []Episode{
		{GUID: "keep", Title: "Keep", Type: "full", PublicationDate: published},
		{GUID: "drop", Title: "Drop", Type: "full", PublicationDate: published,
			Files: []EpisodeFile{{URL: "https://example.com/drop.mp3", Length: 1, Type: "audio/mpeg"}}},
		{GUID: "imported", Title: "Imported", Type: "full", PublicationDate: published, Source: EpisodeSourceImported},
	}
	for _, episode := range episodes {
		if err := episodeRepo.UpsertEpisode(ctx, showID, episode); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := episodeRepo.DeleteDefinedEpisodesExcept(ctx, showID, []string{"keep"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted episode, got %d", deleted)
	}

	remaining, err := episodeRepo.GetPublishedEpisodes(ctx, showID, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	guids := make(map[string]string)
	for _, episode := range remaining {
		guids[episode.GUID] = episode.Source
	}
	if len(guids) != 2 || guids["keep"] != EpisodeSourceDefined || guids["imported"] != EpisodeSourceImported {
		t.Errorf("Unexpected remaining episodes: %v", guids)
	}

	var files int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM episode_files").Scan(&files); err != nil {
		t.Fatal(err)
	}
	if files != 0 {
		t.Errorf("Expected files of deleted episode to be removed, got %d", files)
	}

	// An empty definition list removes every defined episode.
	if _, err := episodeRepo.DeleteDefinedEpisodesExcept(ctx, showID, nil); err != nil {
		t.Fatal(err)
	}
	if count, _ := episodeRepo.GetEpisodeCount(ctx, showID); count != 1 {
		t.Errorf("Expected only the imported episode to remain, got %d", count)
	}
}
