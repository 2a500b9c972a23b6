package works

import (
	"fmt"
	"slices"
	"strings"
)

// SortKey selects what the list is ordered by.
type SortKey string

const (
	SortAlphabetical SortKey = "alphabetical"
	SortDate         SortKey = "date"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortKey accepts the keys used by sort buttons, including the older
// "year" spelling.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alphabetical", "alpha", "name", "slug":
		return SortAlphabetical, nil
	case "date", "year":
		return SortDate, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SortState is the current ordering.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSort is alphabetical, ascending.
func DefaultSort() SortState {
	return SortState{Key: SortAlphabetical, Direction: Asc}
}

// Label is the text shown on a sort button for this state.
func (s SortState) Label() string {
	switch {
	case s.Key == SortAlphabetical && s.Direction == Desc:
		return "Z-A"
	case s.Key == SortAlphabetical:
		return "A-Z"
	case s.Direction == Desc:
		return "New→Past"
	default:
		return "Past→New"
	}
}

// Sort reorders the visible entries of l. Hidden entries keep their slots
// and the visible ones are permuted among the remaining slots, so a later
// reveal puts hidden entries back where they were. The sort is stable,
// making a repeated call with the same state a no-op. Lists of detail pages
// are never sorted; it returns false when it skipped.
func Sort(l *List, s SortState) bool {
	if l.detail {
		return false
	}

	var (
		slots   []int
		visible []*Entry
	)
	for i, e := range l.entries {
		if e.Visible {
			slots = append(slots, i)
			visible = append(visible, e)
		}
	}
	if len(visible) < 2 {
		return true
	}

	cmp := compareFunc(s)
	slices.SortStableFunc(visible, cmp)
	for i, slot := range slots {
		l.entries[slot] = visible[i]
	}
	return true
}

func compareFunc(s SortState) func(a, b *Entry) int {
	var base func(a, b *Entry) int
	switch s.Key {
	case SortDate:
		base = compareDate
	default:
		base = compareSlug
	}
	if s.Direction == Desc {
		return func(a, b *Entry) int { return base(b, a) }
	}
	return base
}

func compareSlug(a, b *Entry) int {
	return strings.Compare(strings.ToLower(a.Slug), strings.ToLower(b.Slug))
}

// compareDate ranks an entry without a readable year above every dated
// entry, so undated entries sink under ascending order and lead under
// descending order.
func compareDate(a, b *Entry) int {
	ya, okA := a.Date.Year()
	yb, okB := b.Date.Year()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	default:
		return ya - yb
	}
}
