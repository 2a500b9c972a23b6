package works

import (
	"strconv"

	"github.com/apandji/pandjico4/internal/shell"
)

// projectFilterControls highlights the active filter buttons, the "all"
// button when nothing is selected, and the matching tag buttons of a
// project page, then updates the badge count ("all" counts as one).
func projectFilterControls(doc *shell.Document, f *Filter) {
	if buttons, err := doc.FilterButtons(); err == nil {
		for _, btn := range buttons {
			value := shell.Attr(btn, "data-filter")
			if value == AllTag {
				shell.SetClass(btn, classActive, f.Empty())
			} else {
				shell.SetClass(btn, classActive, f.Has(value))
			}
		}
	}

	if tags, err := doc.ProjectTags(); err == nil {
		for _, tag := range tags {
			shell.SetClass(tag, classActive, f.Has(shell.Attr(tag, "data-tag")))
		}
	}

	if badge, err := doc.FilterBadge(); err == nil {
		count := len(f.Active())
		if count == 0 {
			count = 1
		}
		shell.SetText(badge, strconv.Itoa(count))
		shell.SetClass(badge, "show", true)
	}
}

// projectSortControls marks the button of the current key active and writes
// each button's direction and label. dirs holds the remembered direction of
// every key.
func projectSortControls(doc *shell.Document, current SortState, dirs map[SortKey]Direction) {
	buttons, err := doc.SortButtons()
	if err != nil {
		return
	}
	for _, btn := range buttons {
		key, err := ParseSortKey(shell.Attr(btn, "data-sort"))
		if err != nil {
			continue
		}
		dir, ok := dirs[key]
		if !ok {
			dir = Asc
		}
		shell.SetClass(btn, classActive, key == current.Key)
		shell.SetAttr(btn, "data-direction", string(dir))
		if label := shell.FirstByClass(btn, "sort-label"); label != nil {
			shell.SetText(label, SortState{Key: key, Direction: dir}.Label())
		}
	}
}

// sortDirectionsFromDoc seeds per-key directions from the buttons' markup.
func sortDirectionsFromDoc(doc *shell.Document) map[SortKey]Direction {
	dirs := map[SortKey]Direction{SortAlphabetical: Asc, SortDate: Desc}
	if doc == nil {
		return dirs
	}
	buttons, err := doc.SortButtons()
	if err != nil {
		return dirs
	}
	for _, btn := range buttons {
		if !shell.HasAttr(btn, "data-direction") {
			continue
		}
		key, err := ParseSortKey(shell.Attr(btn, "data-sort"))
		if err != nil {
			continue
		}
		if dir, err := ParseDirection(shell.Attr(btn, "data-direction")); err == nil {
			dirs[key] = dir
		}
	}
	return dirs
}
