package feed

import (
	"testing"
	"time"

	"podshelf/internal/tags"
)

func namedEpisode(path string) *Episode {
	return &Episode{path: path, orderByName: true, tags: tags.Info{Fields: tags.Fields{}}}
}

func datedEpisode(path, date string) *Episode {
	return &Episode{path: path, tags: tags.Info{Fields: tags.Fields{"date": date}}}
}

func TestSortEpisodesByName(t *testing.T) {
	episodes := []*Episode{
		namedEpisode("/audio/Track 10.mp3"),
		namedEpisode("/audio/Track 2.mp3"),
		namedEpisode("/audio/Track 1.mp3"),
	}
	SortEpisodes(episodes)

	want := []string{"Track 1.mp3", "Track 2.mp3", "Track 10.mp3"}
	for i, ep := range episodes {
		if ep.Filename() != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], ep.Filename())
		}
	}
}

func TestSortEpisodesByDate(t *testing.T) {
	episodes := []*Episode{
		datedEpisode("/audio/c.mp3", "2022-01-05"),
		datedEpisode("/audio/a.mp3", "2021-12-31"),
		datedEpisode("/audio/b.mp3", "2022-01-01"),
	}
	SortEpisodes(episodes)

	want := []string{"a.mp3", "b.mp3", "c.mp3"}
	for i, ep := range episodes {
		if ep.Filename() != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], ep.Filename())
		}
	}
}

func TestSortEpisodesStableOnTies(t *testing.T) {
	episodes := []*Episode{
		datedEpisode("/audio/first.mp3", "2022-01-01"),
		datedEpisode("/audio/second.mp3", "2022-01-01"),
		datedEpisode("/audio/third.mp3", "2022-01-01"),
	}
	SortEpisodes(episodes)

	want := []string{"first.mp3", "second.mp3", "third.mp3"}
	for i, ep := range episodes {
		if ep.Filename() != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], ep.Filename())
		}
	}
}

func TestNameOrderingMatchesSyntheticDates(t *testing.T) {
	// The synthetic dates exist so date-sorting podcast clients see the
	// same order as the natural sort over basenames.
	names := []string{"001 - Intro", "002 - Middle", "010 - End"}
	var previous time.Time
	for i, name := range names {
		date := syntheticDate(name)
		if i > 0 && !date.After(previous) {
			t.Fatalf("expected %s to follow %s", name, names[i-1])
		}
		previous = date
	}
}
