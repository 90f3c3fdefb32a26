package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"
)

// Seed describes an adapter to build: its settings, its entries and the
// operations applied once everything is added.
type Seed struct {
	Kind              string      `yaml:"kind" toml:"kind"`
	States            int         `yaml:"states" toml:"states"`
	Choice            string      `yaml:"choice" toml:"choice"`
	Scope             string      `yaml:"scope" toml:"scope"`
	AllowDuplicates   bool        `yaml:"allow_duplicates" toml:"allow_duplicates"`
	UniqueChildren    bool        `yaml:"unique_children" toml:"unique_children"`
	FilterEmptyGroups bool        `yaml:"filter_empty_groups" toml:"filter_empty_groups"`
	Items             []SeedItem  `yaml:"items" toml:"items"`
	Groups            []SeedGroup `yaml:"groups" toml:"groups"`
	Sort              string      `yaml:"sort" toml:"sort"`
	Filters           []string    `yaml:"filters" toml:"filters"`
	GroupFilters      []string    `yaml:"group_filters" toml:"group_filters"`
}

// SeedItem is one entry. A bare string is shorthand for {value: ...}.
type SeedItem struct {
	Value    string `yaml:"value" toml:"value"`
	State    int    `yaml:"state" toml:"state"`
	Disabled bool   `yaml:"disabled" toml:"disabled"`
	Selected bool   `yaml:"selected" toml:"selected"`
}

// SeedGroup is a group with its children.
type SeedGroup struct {
	SeedItem `yaml:",inline" toml:"-"`
	Expanded bool       `yaml:"expanded" toml:"expanded"`
	Children []SeedItem `yaml:"children" toml:"children"`
}

const (
	kindList       = "list"
	kindExpandable = "expandable"
)

func (it *SeedItem) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		it.Value = node.Value
		return nil
	}
	type plain SeedItem
	return node.Decode((*plain)(it))
}

func (it *SeedItem) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		it.Value = val
		return nil
	case map[string]any:
		return it.fromMap(val)
	default:
		return fmt.Errorf("seed item: unsupported value %T", v)
	}
}

func (g *SeedGroup) UnmarshalTOML(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("seed group: expected a table, got %T", v)
	}
	if err := g.fromMap(m); err != nil {
		return err
	}
	if name, ok := m["name"].(string); ok && g.Value == "" {
		g.Value = name
	}
	g.Expanded, _ = m["expanded"].(bool)
	var children []any
	switch cs := m["children"].(type) {
	case []any:
		children = cs
	case []map[string]any:
		for _, c := range cs {
			children = append(children, c)
		}
	}
	for _, c := range children {
		var it SeedItem
		if err := it.UnmarshalTOML(c); err != nil {
			return err
		}
		g.Children = append(g.Children, it)
	}
	return nil
}

func (it *SeedItem) fromMap(m map[string]any) error {
	it.Value, _ = m["value"].(string)
	if s, ok := m["state"].(int64); ok {
		it.State = int(s)
	}
	it.Disabled, _ = m["disabled"].(bool)
	it.Selected, _ = m["selected"].(bool)
	return nil
}

// UnmarshalYAML lets a group use `name` as an alias of `value`.
func (g *SeedGroup) UnmarshalYAML(node *yaml.Node) error {
	var aux struct {
		Name     string     `yaml:"name"`
		Value    string     `yaml:"value"`
		State    int        `yaml:"state"`
		Disabled bool       `yaml:"disabled"`
		Selected bool       `yaml:"selected"`
		Expanded bool       `yaml:"expanded"`
		Children []SeedItem `yaml:"children"`
	}
	if node.Kind == yaml.ScalarNode {
		g.Value = node.Value
		return nil
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	g.Value = aux.Value
	if g.Value == "" {
		g.Value = aux.Name
	}
	g.State, g.Disabled, g.Selected = aux.State, aux.Disabled, aux.Selected
	g.Expanded, g.Children = aux.Expanded, aux.Children
	return nil
}

// loadSeed reads a YAML or TOML seed file, chosen by extension.
func loadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	var s Seed
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Seed{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &s); err != nil {
			return Seed{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Seed{}, fmt.Errorf("seed %s: unsupported extension (want .yaml, .yml or .toml)", path)
	}
	if s.Kind == "" {
		s.Kind = kindList
		if len(s.Groups) > 0 {
			s.Kind = kindExpandable
		}
	}
	if s.Kind != kindList && s.Kind != kindExpandable {
		return Seed{}, fmt.Errorf("seed %s: unknown kind %q", path, s.Kind)
	}
	if s.States == 0 {
		s.States = 1
	}
	return s, nil
}
