package feed

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"podshelf/internal/naturalsort"
)

// Reference instant for synthetic ordering dates. Podcast clients sort by
// date, so when name ordering is requested each episode gets this epoch plus
// a per-name day offset instead of a real date.
var orderingEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

var digitRun = regexp.MustCompile(`\d+`)

// syntheticDate fabricates a monotonic timestamp for a filename stem. The
// first digit run becomes a day offset; purely alphabetic names fall back to
// the sum of their character codes. The fallback keeps stable relative order
// but is only an approximation of alphabetical order: longer names can
// outweigh lexically later short ones.
func syntheticDate(stem string) time.Time {
	offset := 0
	if run := digitRun.FindString(stem); run != "" {
		n, err := strconv.Atoi(run)
		if err == nil {
			offset = n
		} else {
			offset = charSum(stem)
		}
	} else {
		offset = charSum(stem)
	}
	// AddDate keeps large offsets exact; date-stamped stems like "20230101"
	// yield day counts that would wrap Duration arithmetic.
	return orderingEpoch.AddDate(0, 0, offset)
}

func charSum(s string) int {
	total := 0
	for _, r := range strings.ToLower(s) {
		total += int(r)
	}
	return total
}

// less is the ordering contract: natural sort over basenames when name
// ordering is active, derived date otherwise. Both operands are expected to
// share the same ordering mode.
func (e *Episode) less(other *Episode) bool {
	if e.orderByName {
		return naturalsort.Compare(filepath.Base(e.path), filepath.Base(other.path)) < 0
	}
	return e.Date().Before(other.Date())
}

// SortEpisodes orders episodes in place. The sort is stable so ties keep
// directory-walk order.
func SortEpisodes(episodes []*Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].less(episodes[j])
	})
}
