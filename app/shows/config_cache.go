package shows

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/podcast-feeds/app/podcast"
)

const (
	defaultImportTimeout = 30
	defaultFileType      = "audio/mpeg"
)

type ConfigCache struct {
	showsDir string
	cache    map[string]*Config
	mu       sync.RWMutex
}

func NewConfigCache(showsDir string) *ConfigCache {
	return &ConfigCache{
		showsDir: showsDir,
		cache:    make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.showsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.showsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		slug := strings.TrimSuffix(filepath.Base(file), ".yml")

		config, err := cc.LoadConfig(slug)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Show definition loaded", "show", slug, "episodes", len(config.Episodes), "import", config.Import.URL != "")
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(slug string) (*Config, error) {
	configFile := cc.getConfigFilePath(slug)
	showConfig, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	showConfig.Slug = slug

	if err := cc.validateConfig(showConfig); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	if showConfig.Author == nil {
		slog.Warn("Show has no author, feeds will fail to render until one is set", "show", slug)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[showConfig.Slug] = showConfig

	return showConfig, nil
}

func (cc *ConfigCache) GetConfig(slug string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	showConfig, ok := cc.cache[slug]
	if !ok {
		return nil, fmt.Errorf("show config with slug '%s' not found", slug)
	}
	return showConfig, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetImportConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	importConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Import.URL != "" {
			importConfigs[k] = v
		}
	}
	return importConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var showConfig Config
	if err := yaml.Unmarshal(data, &showConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if showConfig.Type == "" {
		showConfig.Type = string(podcast.ShowTypeEpisodic)
	}
	if showConfig.Import.Timeout == 0 {
		showConfig.Import.Timeout = defaultImportTimeout
	}
	for i := range showConfig.Episodes {
		applyEpisodeDefaults(&showConfig.Episodes[i])
	}

	return &showConfig, nil
}

func applyEpisodeDefaults(episode *EpisodeConfig) {
	if episode.Type == "" {
		episode.Type = string(podcast.EpisodeTypeFull)
	}
	for i := range episode.Files {
		if episode.Files[i].Type == "" {
			episode.Files[i].Type = defaultFileType
		}
	}
}

func (cc *ConfigCache) validateConfig(showConfig *Config) error {
	if showConfig == nil {
		return fmt.Errorf("showConfig is nil")
	}

	requiredFields := []struct {
		name  string
		value string
	}{
		{"show slug", showConfig.Slug},
		{"name", showConfig.Name},
		{"description", showConfig.Description},
		{"image", showConfig.Image},
		{"category", showConfig.Category},
		{"website", showConfig.Website},
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}

	if !podcast.ShowType(showConfig.Type).Valid() {
		return fmt.Errorf("invalid show type: %s", showConfig.Type)
	}

	if showConfig.Language != "" {
		tag, err := language.Parse(showConfig.Language)
		if err != nil {
			return fmt.Errorf("invalid language %q: %w", showConfig.Language, err)
		}
		showConfig.Language = tag.String()
	}

	if showConfig.Author != nil && (showConfig.Author.Name == "" || showConfig.Author.Email == "") {
		return fmt.Errorf("author requires both name and email")
	}

	if showConfig.Import.Timeout < 0 {
		return fmt.Errorf("import timeout must be non-negative")
	}

	seen := make(map[string]bool, len(showConfig.Episodes))
	for i, episode := range showConfig.Episodes {
		if err := validateEpisode(episode); err != nil {
			return fmt.Errorf("episode at index %d: %w", i, err)
		}
		if seen[episode.GUID] {
			return fmt.Errorf("episode at index %d: duplicate guid %s", i, episode.GUID)
		}
		seen[episode.GUID] = true

		if len(episode.Files) > 1 {
			slog.Warn("Episode has more than one file, feeds will fail to render", "show", showConfig.Slug, "guid", episode.GUID, "files", len(episode.Files))
		}
	}

	return nil
}

func validateEpisode(episode EpisodeConfig) error {
	switch {
	case episode.GUID == "":
		return fmt.Errorf("guid is required")
	case episode.Title == "":
		return fmt.Errorf("title is required")
	case episode.Published.IsZero():
		return fmt.Errorf("published is required")
	case len(episode.Files) == 0:
		return fmt.Errorf("at least one file is required")
	case !podcast.EpisodeType(episode.Type).Valid():
		return fmt.Errorf("invalid episode type: %s", episode.Type)
	}

	for i, file := range episode.Files {
		if file.URL == "" {
			return fmt.Errorf("file at index %d: url is required", i)
		}
		if file.Length < 0 {
			return fmt.Errorf("file at index %d: length must be non-negative", i)
		}
	}

	nonNegativeFields := map[string]*int{
		"number":   episode.Number,
		"season":   episode.Season,
		"duration": episode.Duration,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue != nil && *fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(slug string) string {
	return filepath.Join(cc.showsDir, slug+".yml")
}
