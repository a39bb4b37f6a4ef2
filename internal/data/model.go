package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelEntry describes how one actor kind is drawn.
type ModelEntry struct {
	Kind  string  `yaml:"kind"`  // player, ball
	Mesh  string  `yaml:"mesh"`  // path relative to the mesh dir; empty = built-in primitive
	Scale float64 `yaml:"scale"` // base scale before height scaling
	Color string  `yaml:"color"`
}

type modelListFile struct {
	Models []ModelEntry `yaml:"models"`
}

// ModelTable indexes model entries by kind.
type ModelTable struct {
	models map[string]*ModelEntry
}

// NewModelTable builds a table from entries. A later entry for the same
// kind replaces an earlier one.
func NewModelTable(entries []ModelEntry) *ModelTable {
	t := &ModelTable{
		models: make(map[string]*ModelEntry, len(entries)),
	}
	for i := range entries {
		e := entries[i]
		if e.Scale == 0 {
			e.Scale = 1
		}
		t.models[e.Kind] = &e
	}
	return t
}

// LoadModelTable loads model_list.yaml.
func LoadModelTable(path string) (*ModelTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model list: %w", err)
	}
	var f modelListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse model list: %w", err)
	}
	return NewModelTable(f.Models), nil
}

// Get returns the model for kind, or nil if none.
func (t *ModelTable) Get(kind string) *ModelEntry {
	return t.models[kind]
}

// Count returns the number of kinds with a model.
func (t *ModelTable) Count() int {
	return len(t.models)
}
