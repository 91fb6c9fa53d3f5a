package feed

import (
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"podshelf/internal/web"
)

// FolderIndexConfig carries the construction parameters for a FolderIndex.
// Title, Link, TitleMode and OrderByName propagate to every channel it
// creates.
type FolderIndexConfig struct {
	RootDir     string
	RootURL     string
	Title       string
	Link        string
	TitleMode   TitleMode
	OrderByName bool
}

// FolderIndex exposes one folder-scoped Channel per immediate subdirectory
// of the root that directly contains audio. The folder list is computed
// lazily and memoized for the life of the instance; build a new FolderIndex
// to observe later filesystem changes.
type FolderIndex struct {
	rootDir     string
	rootURL     string
	title       string
	link        string
	titleMode   TitleMode
	orderByName bool
	logger      *log.Logger

	foldersOnce sync.Once
	folders     []string
}

// NewFolderIndex returns a ready folder index.
func NewFolderIndex(cfg FolderIndexConfig, logger *log.Logger) *FolderIndex {
	if logger == nil {
		logger = log.Default()
	}
	return &FolderIndex{
		rootDir:     cfg.RootDir,
		rootURL:     cfg.RootURL,
		title:       cfg.Title,
		link:        cfg.Link,
		titleMode:   cfg.TitleMode,
		orderByName: cfg.OrderByName,
		logger:      logger,
	}
}

// Title returns the index page title.
func (f *FolderIndex) Title() string {
	if f.title != "" {
		return f.title
	}
	return "Podcast Feeds"
}

// Folders returns the alphabetically sorted immediate subdirectories that
// directly contain at least one audio file. Audio in nested subfolders does
// not count. Directory access errors contribute an empty list.
func (f *FolderIndex) Folders() []string {
	f.foldersOnce.Do(func() {
		entries, err := os.ReadDir(f.rootDir)
		if err != nil {
			f.logger.Printf("could not list folders in %s: %v", f.rootDir, err)
			return
		}

		var folders []string
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if f.hasDirectAudio(filepath.Join(f.rootDir, entry.Name())) {
				folders = append(folders, entry.Name())
			}
		}

		sort.Strings(folders)
		f.folders = folders
	})
	return f.folders
}

func (f *FolderIndex) hasDirectAudio(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsAudioFile(entry.Name()) {
			return true
		}
	}
	return false
}

// Channel returns the folder-scoped channel for a listed folder, or nil
// when the folder is not part of the index.
func (f *FolderIndex) Channel(name string) *Channel {
	listed := false
	for _, folder := range f.Folders() {
		if folder == name {
			listed = true
			break
		}
	}
	if !listed {
		return nil
	}

	title := f.title
	if title == "" {
		title = name
	}

	return NewChannel(ChannelConfig{
		RootDir:     f.rootDir,
		RootURL:     f.rootURL,
		Title:       title,
		Link:        f.link,
		Folder:      name,
		TitleMode:   f.titleMode,
		OrderByName: f.orderByName,
	}, f.logger)
}

// IndexEntry describes one folder on the index page.
type IndexEntry struct {
	Name         string
	FeedPath     string
	WebPath      string
	FeedURL      string
	EpisodeCount int
	ImageURL     string
}

// Entries enumerates and sorts each folder's episodes once to produce the
// per-folder index entries: links, episode count and a representative cover
// taken from the first sorted episode.
func (f *FolderIndex) Entries() []IndexEntry {
	var entries []IndexEntry
	for _, name := range f.Folders() {
		episodes := f.Channel(name).Sorted()

		image := ""
		if len(episodes) > 0 {
			image = episodes[0].CoverImageURL()
		}

		escaped := url.PathEscape(name)
		entries = append(entries, IndexEntry{
			Name:         name,
			FeedPath:     "/feed/" + escaped,
			WebPath:      "/web/" + escaped,
			FeedURL:      f.rootURL + "/feed/" + escaped,
			EpisodeCount: len(episodes),
			ImageURL:     image,
		})
	}
	return entries
}

// RenderIndex renders the HTML index page listing every folder feed.
func (f *FolderIndex) RenderIndex(renderer *web.Renderer) ([]byte, error) {
	entries := f.Entries()
	views := make([]web.FolderView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, web.FolderView{
			Name:         entry.Name,
			FeedPath:     entry.FeedPath,
			WebPath:      entry.WebPath,
			FeedURL:      entry.FeedURL,
			EpisodeCount: entry.EpisodeCount,
			ImageURL:     entry.ImageURL,
		})
	}
	return renderer.RenderIndex(web.IndexData{Title: f.Title(), Folders: views})
}
