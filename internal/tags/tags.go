// Package tags extracts audio tag metadata and durations from local files.
package tags

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// Fields maps normalized tag names to their first value.
type Fields map[string]string

// Get returns the named field, reporting whether a non-empty value exists.
func (f Fields) Get(name string) (string, bool) {
	value, ok := f[name]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Info is the tag snapshot taken when an episode is constructed. Title and
// Comment mirror the raw title/comment frames and are nil when absent.
type Info struct {
	Fields  Fields
	Title   *string
	Comment *string
}

// Raw frame names that can carry a date, across ID3v2.3/v2.4, vorbis
// comments and MP4 atoms. Checked in order.
var dateFrameNames = []string{
	"TDRC",
	"TDRL",
	"TYER",
	"DATE",
	"date",
	"\xa9day",
	"year",
}

// Read extracts the tag data for an audio file. On failure it returns an
// empty Info alongside the error so callers can log and continue.
func Read(path string) (Info, error) {
	info := Info{Fields: Fields{}}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return info, err
	}

	if value := strings.TrimSpace(meta.Title()); value != "" {
		info.Fields["title"] = value
		info.Title = &value
	}
	if value := strings.TrimSpace(meta.Comment()); value != "" {
		info.Fields["comment"] = value
		info.Comment = &value
	}
	if value := strings.TrimSpace(meta.Artist()); value != "" {
		info.Fields["artist"] = value
	}
	if value := strings.TrimSpace(meta.Album()); value != "" {
		info.Fields["album"] = value
	}
	if value := strings.TrimSpace(meta.Genre()); value != "" {
		info.Fields["genre"] = value
	}
	if value, ok := dateField(meta.Raw()); ok {
		info.Fields["date"] = value
	}

	return info, nil
}

func dateField(raw map[string]interface{}) (string, bool) {
	for _, name := range dateFrameNames {
		if value, ok := raw[name]; ok {
			if text, ok := value.(string); ok {
				text = strings.TrimSpace(text)
				if text != "" {
					return text, true
				}
			}
		}
	}
	return "", false
}

// Duration returns the playing time of an audio file in seconds. Formats
// without a frame decoder report zero duration and no error; the caller
// treats both zero and an error as unknown.
func Duration(path string) (float64, error) {
	if !strings.EqualFold(filepath.Ext(path), ".mp3") {
		return 0, nil
	}
	return mp3Duration(path)
}

func mp3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}
