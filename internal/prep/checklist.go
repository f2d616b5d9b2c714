// Package prep is the preparation checklist: a fixed list of things to gather
// before a run, checked off locally.
package prep

import (
	"fmt"

	"github.com/idilsaglam/grimoire/internal/catalog"
	"github.com/idilsaglam/grimoire/internal/store/jsonstore"
)

// Entry is one checklist line with its state.
type Entry struct {
	ID      string
	Label   string
	Checked bool
}

// Checklist binds the catalog's preparation list to local storage.
type Checklist struct {
	items   []catalog.Preparation
	store   jsonstore.Store
	checked map[string]bool
}

// Open loads the checked ids from store. Unknown ids in the file are ignored.
func Open(items []catalog.Preparation, store jsonstore.Store) (*Checklist, error) {
	checked, err := store.Load()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(items))
	for _, it := range items {
		if checked[it.ID] {
			known[it.ID] = true
		}
	}
	return &Checklist{items: items, store: store, checked: known}, nil
}

// Set checks or unchecks id and persists immediately.
func (c *Checklist) Set(id string, checked bool) error {
	if _, ok := c.Lookup(id); !ok {
		return fmt.Errorf("unknown preparation %q", id)
	}
	if checked {
		c.checked[id] = true
	} else {
		delete(c.checked, id)
	}
	return c.store.Save(c.checked)
}

// Lookup finds an entry by id.
func (c *Checklist) Lookup(id string) (Entry, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return Entry{ID: it.ID, Label: it.Label, Checked: c.checked[it.ID]}, true
		}
	}
	return Entry{}, false
}

// Sorted lists unchecked entries first, each group in catalog order.
func (c *Checklist) Sorted() []Entry {
	out := make([]Entry, 0, len(c.items))
	for _, pass := range []bool{false, true} {
		for _, it := range c.items {
			if c.checked[it.ID] == pass {
				out = append(out, Entry{ID: it.ID, Label: it.Label, Checked: pass})
			}
		}
	}
	return out
}

// Counts returns checked and total entries.
func (c *Checklist) Counts() (checked, total int) {
	return len(c.checked), len(c.items)
}

// AllChecked reports whether every entry is checked.
func (c *Checklist) AllChecked() bool {
	return len(c.items) > 0 && len(c.checked) == len(c.items)
}
