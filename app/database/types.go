package database

import (
	"time"
)

type Author struct {
	ID    int64
	Name  string
	Email string
}

type Show struct {
	ID              int64
	Slug            string // Derived from the definition filename
	Name            string
	LongDescription string
	Image           string
	Language        string
	Category        string
	Subcategory     string
	Website         string
	Copyright       string
	Type            string
	IsExplicit      bool
	IsBlocked       bool
	IsComplete      bool
	AuthorID        *int64
	Author          *Author // Joined on read, nil when author_id is NULL
	UpdatedAt       time.Time
}

// Episode sources. Sync prunes only defined episodes.
const (
	EpisodeSourceDefined  = "defined"
	EpisodeSourceImported = "imported"
)

type EpisodeFile struct {
	URL    string
	Length int64
	Type   string
}

type Episode struct {
	ID              int64
	ShowID          int64
	GUID            string
	Title           string
	Notes           string
	EpisodeNumber   *int
	SeasonNumber    *int
	Type            string
	IsBlocked       bool
	PublicationDate time.Time // Stored as unix seconds
	Duration        *int      // Seconds
	Link            string
	Image           string
	IsExplicit      bool
	Source          string // EpisodeSourceDefined or EpisodeSourceImported, defined when empty
	Files           []EpisodeFile
}
