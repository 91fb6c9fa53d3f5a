package feed

import (
	"fmt"
	"log"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"podshelf/internal/tags"
)

// TitleMode selects how an episode title is derived from the filename and
// the file's tags.
type TitleMode int

const (
	// TitleDefault glues the filename stem, the tag title and the comment
	// together, preserving the legacy behavior.
	TitleDefault TitleMode = iota
	// TitleID3Preferred uses the tag title (plus comment) when present and
	// falls back to the filename stem.
	TitleID3Preferred
	// TitleFilenameOnly ignores tags entirely.
	TitleFilenameOnly
)

const staticPrefix = "/static"

var coverExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Episode is one audio file's derived feed view. Tag extraction happens once
// at construction; everything else is computed on access so it reflects the
// filesystem at call time.
type Episode struct {
	path        string
	relativeDir string
	rootURL     string
	titleMode   TitleMode
	orderByName bool
	length      int64
	modTime     time.Time
	tags        tags.Info
	logger      *log.Logger
}

// NewEpisode builds the episode view for an audio file. A tag-extraction
// failure is logged and leaves the episode with an empty tag set; only a
// failing stat is an error.
func NewEpisode(path, relativeDir, rootURL string, mode TitleMode, orderByName bool, logger *log.Logger) (*Episode, error) {
	if logger == nil {
		logger = log.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	tagInfo, err := tags.Read(path)
	if err != nil {
		logger.Printf("could not read tags of %s: %v", path, err)
	}

	return &Episode{
		path:        path,
		relativeDir: relativeDir,
		rootURL:     rootURL,
		titleMode:   mode,
		orderByName: orderByName,
		length:      info.Size(),
		modTime:     info.ModTime(),
		tags:        tagInfo,
		logger:      logger,
	}, nil
}

// Path returns the episode's file path.
func (e *Episode) Path() string { return e.path }

// Filename returns the base name of the episode file.
func (e *Episode) Filename() string { return filepath.Base(e.path) }

// Directory returns the name of the directory holding the episode file.
func (e *Episode) Directory() string { return filepath.Base(filepath.Dir(e.path)) }

// Length returns the file size in bytes captured at construction time.
func (e *Episode) Length() int64 { return e.length }

func (e *Episode) stem() string {
	base := filepath.Base(e.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Title derives the episode title according to the title mode.
func (e *Episode) Title() string {
	stem := e.stem()

	switch e.titleMode {
	case TitleFilenameOnly:
		return stem
	case TitleID3Preferred:
		if e.tags.Title != nil {
			title := *e.tags.Title
			if e.tags.Comment != nil {
				title += " " + *e.tags.Comment
			}
			return title
		}
		return stem
	default:
		text := stem
		if e.tags.Title != nil {
			text += *e.tags.Title
		}
		if e.tags.Comment != nil {
			text += " " + *e.tags.Comment
		}
		return text
	}
}

// Date layouts for the free-form date tag, most to least specific.
var dateLayouts = []string{
	"2006-01-02:15:04:05",
	"2006-01-02:15:04",
	"2006-01-02:15",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Date returns the episode's publication instant. With name ordering active
// it is a synthetic, monotonic surrogate; otherwise the date tag is parsed
// and the file's modification time is the fallback.
func (e *Episode) Date() time.Time {
	if e.orderByName {
		return syntheticDate(e.stem())
	}

	if raw, ok := e.tags.Fields.Get("date"); ok {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
				return t
			}
		}
	}

	if info, err := os.Stat(e.path); err == nil {
		return info.ModTime()
	}
	return e.modTime
}

// URL returns the public URL of the episode file.
func (e *Episode) URL() string {
	return e.fileURL(filepath.Base(e.path))
}

// fileURL builds the public URL for a file sitting in the episode's
// directory. Duplicate slashes collapse so a root URL with a trailing
// separator never produces "//".
func (e *Episode) fileURL(name string) string {
	p := staticPrefix + "/" + e.relativeDir + "/" + name
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if strings.HasSuffix(e.rootURL, "/") {
		p = strings.TrimPrefix(p, "/")
	}
	escaped := (&url.URL{Path: p}).EscapedPath()
	return e.rootURL + escaped
}

// CoverImageURL returns the URL of the first image file sharing the
// episode's directory, or "" when there is none.
func (e *Episode) CoverImageURL() string {
	entries, err := os.ReadDir(filepath.Dir(e.path))
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := coverExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; ok {
			return e.fileURL(entry.Name())
		}
	}
	return ""
}

// MimeType returns the mimetype derived from the file extension.
func (e *Episode) MimeType() string {
	return MimeTypeFor(filepath.Base(e.path))
}

// Duration returns the playing time in whole seconds, reporting false when
// it cannot be determined. Extraction failures are logged, never fatal.
func (e *Episode) Duration() (int, bool) {
	seconds, err := tags.Duration(e.path)
	if err != nil {
		e.logger.Printf("could not read duration of %s: %v", e.path, err)
		return 0, false
	}
	if seconds <= 0 {
		return 0, false
	}
	return int(seconds), true
}

// DurationFormatted renders the duration as H:MM:SS, or MM:SS when under an
// hour, or "Unknown".
func (e *Episode) DurationFormatted() string {
	seconds, ok := e.Duration()
	if !ok {
		return "Unknown"
	}
	return formatDuration(seconds)
}

func formatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// MimeTypeFor maps a filename to its mimetype. ".m4b" is special-cased
// because generic mimetype tables often miss it.
func MimeTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".m4b" {
		return "audio/x-m4b"
	}
	if ext != "" {
		if value := mime.TypeByExtension(ext); value != "" {
			return value
		}
		if fallback, ok := fallbackMIMETypes[ext]; ok {
			return fallback
		}
	}
	return "application/octet-stream"
}

var fallbackMIMETypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/x-wav",
}

// IsAudioFile reports whether the path names an audio file: the mimetype
// mentions audio, or the extension is .m4b.
func IsAudioFile(path string) bool {
	if strings.Contains(MimeTypeFor(filepath.Base(path)), "audio") {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".m4b")
}
