package shows

import (
	"time"
)

// Show definition types, one YAML file per show

type Config struct {
	Slug        string          // Derived from filename (without .yml extension)
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Image       string          `yaml:"image"`
	Language    string          `yaml:"language"`
	Category    string          `yaml:"category"`
	Subcategory string          `yaml:"subcategory"`
	Website     string          `yaml:"website"`
	Copyright   string          `yaml:"copyright"`
	Type        string          `yaml:"type"`
	Explicit    bool            `yaml:"explicit"`
	Blocked     bool            `yaml:"blocked"`
	Complete    bool            `yaml:"complete"`
	Author      *AuthorConfig   `yaml:"author"`
	Import      ImportConfig    `yaml:"import"`
	Episodes    []EpisodeConfig `yaml:"episodes"`
}

type AuthorConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type ImportConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"` // seconds
}

type EpisodeConfig struct {
	GUID      string       `yaml:"guid"`
	Title     string       `yaml:"title"`
	Notes     string       `yaml:"notes"`
	Number    *int         `yaml:"number"`
	Season    *int         `yaml:"season"`
	Type      string       `yaml:"type"`
	Blocked   bool         `yaml:"blocked"`
	Files     []FileConfig `yaml:"files"`
	Published time.Time    `yaml:"published"`
	Duration  *int         `yaml:"duration"` // seconds
	Link      string       `yaml:"link"`
	Image     string       `yaml:"image"`
	Explicit  bool         `yaml:"explicit"`
}

type FileConfig struct {
	URL    string `yaml:"url"`
	Length int64  `yaml:"length"` // bytes
	Type   string `yaml:"type"`
}
