package podcast

import (
	"time"
)

type ShowType string

const (
	ShowTypeEpisodic ShowType = "episodic"
	ShowTypeSerial   ShowType = "serial"
)

func (t ShowType) Valid() bool {
	return t == ShowTypeEpisodic || t == ShowTypeSerial
}

type EpisodeType string

const (
	EpisodeTypeFull    EpisodeType = "full"
	EpisodeTypeTrailer EpisodeType = "trailer"
	EpisodeTypeBonus   EpisodeType = "bonus"
)

func (t EpisodeType) Valid() bool {
	switch t {
	case EpisodeTypeFull, EpisodeTypeTrailer, EpisodeTypeBonus:
		return true
	}
	return false
}

// Feed records

type Author struct {
	Name  string
	Email string
}

type FeedMetadata struct {
	Title       string
	Description string // written as CDATA
	Language    string // empty means unset
	Explicit    bool
	Image       string
	Category    string
	Subcategory string // empty means no nested category
	Author      Author
	Link        string
	Copyright   *string
	Type        string
	Block       bool
	Complete    bool
}

type Enclosure struct {
	URL    string
	Length int64 // bytes
	Type   string
}

type FeedItem struct {
	Title       string
	Description string // written as CDATA
	Enclosures  []Enclosure
	GUID        string
	PubDate     time.Time
	Duration    *int // seconds
	Link        string
	Image       string
	Explicit    bool
	EpisodeType string
	Episode     *int
	Season      *int
	Block       bool
}

// Catalog records

type AuthorRecord struct {
	ID    int64
	Name  string
	Email string
}

type ShowRecord struct {
	ID              int64
	Slug            string
	Name            string
	LongDescription string
	Image           string
	Language        string
	Category        string
	Subcategory     string
	Website         string
	Copyright       string
	Type            ShowType
	IsExplicit      bool
	IsBlocked       bool
	IsComplete      bool
	Author          *AuthorRecord // nil when the catalog has no author for the show
}

type EnclosureRecord struct {
	URL    string
	Length int64
	Type   string
}

type EpisodeRecord struct {
	ID              int64
	GUID            string
	Title           string
	Notes           string
	EpisodeNumber   *int
	SeasonNumber    *int
	Type            EpisodeType
	IsBlocked       bool
	Enclosures      []EnclosureRecord
	PublicationDate time.Time
	Duration        *int
	Link            string
	Image           string
	IsExplicit      bool
}
