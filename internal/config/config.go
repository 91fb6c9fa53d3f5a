package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultHost is the bind host when --host is not given.
	DefaultHost = "localhost"
	// DefaultPort is the listen port when --port is not given.
	DefaultPort = "5000"

	defaultDescription       = "Feed generated by podshelf."
	defaultRefreshDebounceMS = 500
)

// FeedMetadata represents the feed-level metadata used when rendering a
// channel. Empty Title and Link get directory-derived defaults at channel
// construction time.
type FeedMetadata struct {
	Title       string
	Link        string
	Description string
}

type feedMetadataYAML struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Description string `yaml:"description"`
}

// ResolveFeedMetadata layers defaults, an optional YAML file and environment
// variable overrides, in that order. When configPath is empty the file named
// by PODSHELF_FEED_CONFIG is used, if any.
func ResolveFeedMetadata(configPath string) (FeedMetadata, error) {
	meta := FeedMetadata{Description: defaultDescription}

	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv("PODSHELF_FEED_CONFIG"))
	}
	if configPath != "" {
		resolved, err := resolveConfigPath(configPath)
		if err != nil {
			return FeedMetadata{}, err
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return FeedMetadata{}, err
		}
		var yamlConfig feedMetadataYAML
		if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
			return FeedMetadata{}, err
		}
		if value := strings.TrimSpace(yamlConfig.Title); value != "" {
			meta.Title = value
		}
		if value := strings.TrimSpace(yamlConfig.Link); value != "" {
			meta.Link = value
		}
		if value := strings.TrimSpace(yamlConfig.Description); value != "" {
			meta.Description = value
		}
	}

	if value := strings.TrimSpace(os.Getenv("PODSHELF_FEED_TITLE")); value != "" {
		meta.Title = value
	}
	if value := strings.TrimSpace(os.Getenv("PODSHELF_FEED_LINK")); value != "" {
		meta.Link = value
	}
	if value := strings.TrimSpace(os.Getenv("PODSHELF_FEED_DESCRIPTION")); value != "" {
		meta.Description = value
	}

	return meta, nil
}

// RefreshDebounce returns the duration to wait before rebuilding the folder
// index after file-system change events.
func RefreshDebounce() time.Duration {
	value := strings.TrimSpace(os.Getenv("PODSHELF_REFRESH_DEBOUNCE_MS"))
	if value == "" {
		return time.Duration(defaultRefreshDebounceMS) * time.Millisecond
	}

	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		return time.Duration(defaultRefreshDebounceMS) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

func resolveConfigPath(path string) (string, error) {
	// Only the current user's home expands; "~user" paths pass through.
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Abs(path)
}
