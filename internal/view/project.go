// Package view derives the read-only projections shown to the user.
// Everything here is a pure function of the item slice it is given.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/idilsaglam/grimoire/internal/model"
)

// Project filters items by search term and category, then stable-sorts them
// so incomplete items come first. Catalog order is kept inside each group.
// The input slice is not modified.
func Project(items []model.Item, search string, category model.Category) []model.Item {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(search))

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if !matchesCategory(it, category) {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(it.Name), term) &&
			!strings.Contains(fold.String(it.Boss), term) {
			continue
		}
		out = append(out, it)
	}

	slices.SortStableFunc(out, func(a, b model.Item) int {
		switch {
		case a.Completed == b.Completed:
			return 0
		case !a.Completed:
			return -1
		default:
			return 1
		}
	})
	return out
}

func matchesCategory(it model.Item, category model.Category) bool {
	return category == "" || category == model.CategoryAll || it.Category == category
}

// Group splits a projection into pending and done, keeping order.
func Group(items []model.Item) (pending, done []model.Item) {
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pending = append(pending, it)
		}
	}
	return pending, done
}
