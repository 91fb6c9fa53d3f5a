package feed

import (
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"podshelf/internal/web"
)

const defaultDescription = "Feed generated by podshelf."

// ChannelConfig carries the construction parameters for a Channel. Zero
// values get defaults: the title falls back to the root directory's base
// name and the link to the feed URL (folder mode) or the root URL.
type ChannelConfig struct {
	RootDir     string
	RootURL     string
	Title       string
	Link        string
	Description string
	// Folder restricts enumeration to the direct children of this immediate
	// subdirectory.
	Folder      string
	TitleMode   TitleMode
	OrderByName bool
}

// Channel is the enumerable, renderable view over the episodes within a
// directory. It holds only immutable configuration; every enumeration
// performs a fresh walk, so concurrent use needs no locking.
type Channel struct {
	rootDir     string
	rootURL     string
	title       string
	link        string
	description string
	folder      string
	titleMode   TitleMode
	orderByName bool
	logger      *log.Logger
}

// NewChannel applies defaults and returns a ready channel.
func NewChannel(cfg ChannelConfig, logger *log.Logger) *Channel {
	if logger == nil {
		logger = log.Default()
	}

	title := cfg.Title
	if title == "" {
		abs, err := filepath.Abs(strings.TrimRight(cfg.RootDir, "/"))
		if err != nil {
			abs = cfg.RootDir
		}
		title = filepath.Base(abs)
	}

	link := cfg.Link
	if link == "" {
		if cfg.Folder != "" {
			link = cfg.RootURL + "/feed/" + url.PathEscape(cfg.Folder)
		} else {
			link = cfg.RootURL
		}
	}

	description := cfg.Description
	if description == "" {
		description = defaultDescription
	}

	return &Channel{
		rootDir:     cfg.RootDir,
		rootURL:     cfg.RootURL,
		title:       title,
		link:        link,
		description: description,
		folder:      cfg.Folder,
		titleMode:   cfg.TitleMode,
		orderByName: cfg.OrderByName,
		logger:      logger,
	}
}

// Title returns the channel title.
func (c *Channel) Title() string { return c.title }

// Link returns the channel link.
func (c *Channel) Link() string { return c.link }

// Episodes walks the directory tree and builds one Episode per audio file.
// Each call performs a fresh walk so the result reflects the filesystem at
// call time. A missing folder filter target yields no episodes.
func (c *Channel) Episodes() []*Episode {
	walkRoot := c.rootDir
	if c.folder != "" {
		walkRoot = filepath.Join(c.rootDir, c.folder)
		if _, err := os.Stat(walkRoot); err != nil {
			return nil
		}
	}

	var episodes []*Episode
	filepath.WalkDir(walkRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			c.logger.Printf("walk error for %s: %v", path, err)
			return nil
		}

		if d.IsDir() {
			// Folder mode serves direct children only.
			if c.folder != "" && path != walkRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if !IsAudioFile(path) {
			return nil
		}

		relativeDir := ""
		if rel, err := filepath.Rel(c.rootDir, filepath.Dir(path)); err == nil && rel != "." {
			relativeDir = filepath.ToSlash(rel)
		}

		episode, err := NewEpisode(path, relativeDir, c.rootURL, c.titleMode, c.orderByName, c.logger)
		if err != nil {
			c.logger.Printf("skipping %s: %v", path, err)
			return nil
		}

		episodes = append(episodes, episode)
		return nil
	})

	return episodes
}

// Sorted returns the episodes in feed order.
func (c *Channel) Sorted() []*Episode {
	episodes := c.Episodes()
	SortEpisodes(episodes)
	return episodes
}

// RenderPage renders the channel as a browsable HTML page. A non-empty
// indexURL adds a back-link to the folder index.
func (c *Channel) RenderPage(renderer *web.Renderer, indexURL string) ([]byte, error) {
	episodes := c.Sorted()
	views := make([]web.EpisodeView, 0, len(episodes))
	for _, episode := range episodes {
		views = append(views, web.EpisodeView{
			Title:             episode.Title(),
			URL:               episode.URL(),
			Filename:          episode.Filename(),
			Directory:         episode.Directory(),
			Date:              episode.Date().UTC().Format(time.RFC1123Z),
			Size:              humanize.Bytes(uint64(episode.Length())),
			MimeType:          episode.MimeType(),
			DurationFormatted: episode.DurationFormatted(),
		})
	}

	return renderer.RenderPage(web.PageData{
		Title:       c.title,
		Description: c.description,
		Link:        c.link,
		IndexURL:    indexURL,
		Episodes:    views,
	})
}
