package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/grimoire/internal/model"
)

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func sample() []model.Item {
	return []model.Item{
		{ID: "a", Name: "Bouftou Lair", Boss: "Bouftou Royal", Category: model.CategoryEarly, Reward: 100, Points: 5},
		{ID: "b", Name: "Dragon Den", Boss: "Dragon Cochon", Category: model.CategoryMid, Reward: 200, Points: 10, Completed: true},
		{ID: "c", Name: "Quête Émeraude", Boss: "Dragon Cochon", Category: model.CategoryMid, Reward: 300, Points: 15},
		{ID: "d", Name: "Flib Ship", Boss: "Ben", Category: model.CategoryHigh, Reward: 400, Points: 20, Completed: true},
		{ID: "e", Name: "Kokoko", Boss: "Mansot", Category: model.CategoryMid, Reward: 500, Points: 25},
	}
}

func TestAggregateScenario(t *testing.T) {
	catalog := []model.Item{
		{ID: "a", Reward: 100, Points: 5},
		{ID: "b", Reward: 200, Points: 10, Completed: true},
	}
	got := Aggregate(catalog)
	want := Totals{Completed: 1, Total: 2, Reward: 200, Points: 10}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateSumsOnlyCompleted(t *testing.T) {
	got := Aggregate(sample())
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, int64(600), got.Reward)
	assert.Equal(t, int64(30), got.Points)
	assert.Equal(t, 3, got.Pending())
	assert.Equal(t, 40, got.Percent())
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	assert.Equal(t, Totals{}, got)
	assert.Equal(t, 0, got.Percent())
}

func TestProjectScenario(t *testing.T) {
	catalog := []model.Item{
		{ID: "a", Reward: 100, Points: 5},
		{ID: "b", Reward: 200, Points: 10, Completed: true},
	}
	got := Project(catalog, "", model.CategoryAll)
	if diff := cmp.Diff([]string{"a", "b"}, ids(got)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectPlacesCompletedLastAndIsStable(t *testing.T) {
	got := Project(sample(), "", model.CategoryAll)
	if diff := cmp.Diff([]string{"a", "c", "e", "b", "d"}, ids(got)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	items := sample()
	first := Project(items, "dragon", model.CategoryMid)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, Project(items, "dragon", model.CategoryMid)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	items := sample()
	before := ids(items)
	_ = Project(items, "", model.CategoryAll)
	assert.Equal(t, before, ids(items))
}

func TestProjectFilters(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category model.Category
		want     []string
	}{
		{name: "name match", search: "flib", category: model.CategoryAll, want: []string{"d"}},
		{name: "boss match", search: "COCHON", category: model.CategoryAll, want: []string{"c", "b"}},
		{name: "unicode fold", search: "QUÊTE", category: model.CategoryAll, want: []string{"c"}},
		{name: "category only", search: "", category: model.CategoryMid, want: []string{"c", "e", "b"}},
		{name: "search and category", search: "dragon", category: model.CategoryHigh, want: []string{}},
		{name: "whitespace search is empty", search: "   ", category: model.CategoryEarly, want: []string{"a"}},
		{name: "empty category means all", search: "mansot", category: "", want: []string{"e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Project(sample(), tt.search, tt.category))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	pending, done := Group(Project(sample(), "", model.CategoryAll))
	assert.Equal(t, []string{"a", "c", "e"}, ids(pending))
	assert.Equal(t, []string{"b", "d"}, ids(done))
}
