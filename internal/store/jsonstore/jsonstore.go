package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// JSON-backed scratch storage for the preparation checklist. Single file,
// a JSON array of checked ids. No remote copy and no rollback.

// Key is the fixed file name the checked ids live under.
const Key = "preparatifs-checked.json"

// Store reads and writes one JSON file.
type Store struct {
	Path string
}

// New returns a Store at path; an empty path means ./preparatifs-checked.json.
func New(path string) (Store, error) {
	if path != "" {
		return Store{Path: path}, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return Store{}, fmt.Errorf("getwd: %w", err)
	}
	return Store{Path: filepath.Join(wd, Key)}, nil
}

// Load returns the checked set; a missing file is an empty set.
func (s Store) Load() (map[string]bool, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// Save writes the checked set as a sorted JSON array.
func (s Store) Save(checked map[string]bool) error {
	ids := make([]string, 0, len(checked))
	for id, ok := range checked {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.Path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
