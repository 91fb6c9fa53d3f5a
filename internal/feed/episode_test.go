package feed

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"podshelf/internal/tags"
)

func strptr(value string) *string {
	return &value
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestTitleModes(t *testing.T) {
	cases := []struct {
		name    string
		mode    TitleMode
		title   *string
		comment *string
		want    string
	}{
		{"default glues filename and tag", TitleDefault, strptr("Chapter 1"), nil, "01 - Chapter 1Chapter 1"},
		{"default appends comment", TitleDefault, strptr("Chapter 1"), strptr("remastered"), "01 - Chapter 1Chapter 1 remastered"},
		{"default without tags", TitleDefault, nil, nil, "01 - Chapter 1"},
		{"id3 preferred", TitleID3Preferred, strptr("Chapter 1"), nil, "Chapter 1"},
		{"id3 preferred with comment", TitleID3Preferred, strptr("Chapter 1"), strptr("remastered"), "Chapter 1 remastered"},
		{"id3 preferred falls back to filename", TitleID3Preferred, nil, nil, "01 - Chapter 1"},
		{"filename only ignores tags", TitleFilenameOnly, strptr("Chapter 1"), strptr("remastered"), "01 - Chapter 1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			episode := &Episode{
				path:      "/audio/01 - Chapter 1.mp3",
				titleMode: tc.mode,
				tags:      tags.Info{Fields: tags.Fields{}, Title: tc.title, Comment: tc.comment},
			}
			if got := episode.Title(); got != tc.want {
				t.Fatalf("expected title %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDateFromTag(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2021-06-02:10:30:15", time.Date(2021, 6, 2, 10, 30, 15, 0, time.Local)},
		{"2021-06-02:10:30", time.Date(2021, 6, 2, 10, 30, 0, 0, time.Local)},
		{"2021-06-02:10", time.Date(2021, 6, 2, 10, 0, 0, 0, time.Local)},
		{"2021-06-02", time.Date(2021, 6, 2, 0, 0, 0, 0, time.Local)},
		{"2021-06", time.Date(2021, 6, 1, 0, 0, 0, 0, time.Local)},
		{"2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tc := range cases {
		episode := &Episode{
			path: "/audio/ep.mp3",
			tags: tags.Info{Fields: tags.Fields{"date": tc.raw}},
		}
		if got := episode.Date(); !got.Equal(tc.want) {
			t.Errorf("date tag %q: expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}

func TestDateFallsBackToModTime(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "ep.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	modTime := time.Date(2022, 3, 4, 5, 6, 7, 0, time.Local)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	// Unparseable tag value and no tag at all both fall back.
	for _, fields := range []tags.Fields{{"date": "not a date"}, {}} {
		episode := &Episode{path: path, tags: tags.Info{Fields: fields}}
		if got := episode.Date(); !got.Equal(modTime) {
			t.Fatalf("expected mod time %s, got %s", modTime, got)
		}
	}
}

func TestSyntheticDateDigitOffset(t *testing.T) {
	cases := []struct {
		stem string
		days int
	}{
		{"001 - Title", 1},
		{"002 - Title", 2},
		{"file42", 42},
		{"10 of 20", 10},
	}

	for _, tc := range cases {
		want := orderingEpoch.Add(time.Duration(tc.days) * 24 * time.Hour)
		if got := syntheticDate(tc.stem); !got.Equal(want) {
			t.Errorf("syntheticDate(%q): expected %s, got %s", tc.stem, want, got)
		}
	}
}

func TestSyntheticDateDateStampedStems(t *testing.T) {
	// 8-digit date stamps produce day offsets far beyond any real calendar;
	// they must land after small-offset names, never wrap backwards.
	early := syntheticDate("001 - Intro")
	late := syntheticDate("20230101 - News")
	if !late.After(early) {
		t.Fatalf("expected %s to follow %s", late, early)
	}
	if late.Before(orderingEpoch) {
		t.Fatalf("expected date-stamped stem after the epoch, got %s", late)
	}
	if want := orderingEpoch.AddDate(0, 0, 20230101); !late.Equal(want) {
		t.Fatalf("expected %s, got %s", want, late)
	}
}

func TestSyntheticDateCharSumFallback(t *testing.T) {
	// "abc" has no digits; offset is the sum of lower-cased char codes.
	want := orderingEpoch.Add(time.Duration(97+98+99) * 24 * time.Hour)
	if got := syntheticDate("abc"); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if !syntheticDate("ABC").Equal(syntheticDate("abc")) {
		t.Fatalf("expected case-insensitive char sum")
	}
}

func TestSyntheticDateAlphabeticApproximation(t *testing.T) {
	// Known edge case: the char-sum fallback is not a true lexical order.
	// "ab" sorts before "z" alphabetically, but its larger char sum yields
	// a later synthetic date. Pinned so the surrogate stays faithful.
	if !syntheticDate("ab").After(syntheticDate("z")) {
		t.Fatalf("expected char-sum ordering to invert short lexical order")
	}
}

func TestOrderByNameUsesSyntheticDate(t *testing.T) {
	episode := &Episode{path: "/audio/003 - Chapter.mp3", orderByName: true}
	want := orderingEpoch.Add(3 * 24 * time.Hour)
	if got := episode.Date(); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestURLEncoding(t *testing.T) {
	episode := &Episode{
		path:        "/audio/Book One/My File.mp3",
		relativeDir: "Book One",
		rootURL:     "http://localhost:5000",
	}
	want := "http://localhost:5000/static/Book%20One/My%20File.mp3"
	if got := episode.URL(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestURLCollapsesSlashes(t *testing.T) {
	episode := &Episode{
		path:        "/audio/ep.mp3",
		relativeDir: "",
		rootURL:     "http://localhost:5000",
	}
	want := "http://localhost:5000/static/ep.mp3"
	if got := episode.URL(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestURLNoDoubleSlashWithTrailingRootURL(t *testing.T) {
	episode := &Episode{
		path:        "/audio/ep.mp3",
		relativeDir: "",
		rootURL:     "http://localhost:5000/",
	}
	want := "http://localhost:5000/static/ep.mp3"
	if got := episode.URL(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCoverImageURL(t *testing.T) {
	root := t.TempDir()
	audioPath := filepath.Join(root, "ep.mp3")
	if err := os.WriteFile(audioPath, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "cover.jpg"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write cover: %v", err)
	}

	episode := &Episode{path: audioPath, rootURL: "http://localhost:5000"}
	cover := episode.CoverImageURL()
	if cover == "" {
		t.Fatalf("expected cover image URL")
	}
	if !strings.Contains(cover, "cover.jpg") {
		t.Fatalf("expected cover.jpg in %q", cover)
	}
}

func TestCoverImageURLCaseInsensitiveExtension(t *testing.T) {
	root := t.TempDir()
	audioPath := filepath.Join(root, "ep.mp3")
	if err := os.WriteFile(audioPath, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "Cover.PNG"), []byte("img"), 0o644); err != nil {
		t.Fatalf("write cover: %v", err)
	}

	episode := &Episode{path: audioPath, rootURL: "http://localhost:5000"}
	if cover := episode.CoverImageURL(); !strings.Contains(cover, "Cover.PNG") {
		t.Fatalf("expected Cover.PNG in %q", cover)
	}
}

func TestCoverImageURLAbsent(t *testing.T) {
	root := t.TempDir()
	audioPath := filepath.Join(root, "ep.mp3")
	if err := os.WriteFile(audioPath, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	episode := &Episode{path: audioPath}
	if cover := episode.CoverImageURL(); cover != "" {
		t.Fatalf("expected no cover, got %q", cover)
	}
}

func TestMimeTypeFor(t *testing.T) {
	if got := MimeTypeFor("book.m4b"); got != "audio/x-m4b" {
		t.Fatalf("expected audio/x-m4b, got %q", got)
	}
	if got := MimeTypeFor("ep.mp3"); !strings.Contains(got, "audio") {
		t.Fatalf("expected audio mimetype for mp3, got %q", got)
	}
	if got := MimeTypeFor("noextension"); got != "application/octet-stream" {
		t.Fatalf("expected octet-stream, got %q", got)
	}
}

func TestIsAudioFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"ep.mp3", true},
		{"book.m4b", true},
		{"BOOK.M4B", true},
		{"track.flac", true},
		{"track.ogg", true},
		{"notes.txt", false},
		{"cover.jpg", false},
	}

	for _, tc := range cases {
		if got := IsAudioFile(tc.path); got != tc.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestDurationUnknown(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "book.m4b")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	episode := &Episode{path: path, logger: discardLogger()}
	if _, ok := episode.Duration(); ok {
		t.Fatalf("expected unknown duration for m4b")
	}
	if got := episode.DurationFormatted(); got != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{59, "00:59"},
		{75, "01:15"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
		{7265, "02:01:05"},
	}

	for _, tc := range cases {
		if got := formatDuration(tc.seconds); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
