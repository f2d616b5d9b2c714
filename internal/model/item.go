package model

import "strings"

// Category is the stage label an item belongs to.
type Category string

const (
	CategoryEarly   Category = "early"
	CategoryMid     Category = "mid"
	CategoryHigh    Category = "high"
	CategoryLate    Category = "late"
	CategoryEndgame Category = "endgame"

	// CategoryAll is the filter sentinel that matches every category.
	CategoryAll Category = "all"
)

// Categories lists the stage labels in display order.
var Categories = []Category{CategoryEarly, CategoryMid, CategoryHigh, CategoryLate, CategoryEndgame}

// Valid reports whether c is one of the stage labels (not the "all" sentinel).
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label is the human title for a category.
func (c Category) Label() string {
	switch c {
	case CategoryEarly:
		return "Levels 1-50"
	case CategoryMid:
		return "Levels 51-100"
	case CategoryHigh:
		return "Levels 101-150"
	case CategoryLate:
		return "Levels 151-190"
	case CategoryEndgame:
		return "Levels 191-200"
	case CategoryAll:
		return "All"
	}
	return string(c)
}

// ParseCategory accepts a stage label or "all", case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CategoryAll, true
	}
	if c == CategoryAll || c.Valid() {
		return c, true
	}
	return "", false
}

// Kind separates dungeons from quests.
type Kind string

const (
	KindDungeon Kind = "dungeon"
	KindQuest   Kind = "quest"
)

// Achievement is a side objective attached to a dungeon.
type Achievement struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"` // challenge | monster | capture | other
}

// Item is one trackable catalog entry.
// Completed is the only field that changes once the catalog is loaded.
type Item struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Boss     string   `yaml:"boss" json:"boss"`
	Category Category `yaml:"category" json:"category"`
	Kind     Kind     `yaml:"kind" json:"kind"`
	Level    int      `yaml:"level" json:"level"`
	Reward   int64    `yaml:"reward" json:"reward"`
	Points   int64    `yaml:"points" json:"points"`

	Travel       string        `yaml:"travel" json:"travel,omitempty"`
	Achievements []Achievement `yaml:"achievements" json:"achievements,omitempty"`
	Notes        string        `yaml:"notes" json:"notes,omitempty"`
	Video        string        `yaml:"video" json:"video,omitempty"`

	Completed bool `yaml:"-" json:"completed"`
}
