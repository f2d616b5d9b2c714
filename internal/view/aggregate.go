package view

import "github.com/idilsaglam/grimoire/internal/model"

// Totals summarises the full item set.
type Totals struct {
	Completed int
	Total     int
	Reward    int64 // sum over completed items
	Points    int64 // sum over completed items
}

// Aggregate counts over every item it is given; pass the unfiltered set.
func Aggregate(items []model.Item) Totals {
	t := Totals{Total: len(items)}
	for _, it := range items {
		if !it.Completed {
			continue
		}
		t.Completed++
		t.Reward += it.Reward
		t.Points += it.Points
	}
	return t
}

// Pending is the number of incomplete items.
func (t Totals) Pending() int { return t.Total - t.Completed }

// Percent is the completion ratio in [0, 100].
func (t Totals) Percent() int {
	if t.Total == 0 {
		return 0
	}
	return t.Completed * 100 / t.Total
}
