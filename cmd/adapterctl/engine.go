package main

import (
	"fmt"
	"strings"

	"adaptercore/internal/observability"
	"adaptercore/pkg/adapter"
	"adaptercore/pkg/domain"
)

// entry is the element type the CLI manages. Filters match
// case-insensitively on substrings.
type entry string

func (e entry) Match(query string, _ int) bool {
	return strings.Contains(strings.ToLower(string(e)), strings.ToLower(query))
}

type tree = adapter.Expandable[string, entry]

func buildList(s Seed, env *appEnv) (*adapter.List[entry], error) {
	mode, err := domain.ParseChoiceMode(s.Choice)
	if err != nil {
		return nil, err
	}
	l := adapter.NewList[entry](
		adapter.WithNumberOfStates(s.States),
		adapter.WithChoiceMode(mode),
		adapter.WithAllowDuplicates(s.AllowDuplicates),
		adapter.WithLogger(env.logger),
	)
	if env.recorder != nil {
		if _, err := l.AddListener(observability.ListListener[entry](env.recorder, "list")); err != nil {
			return nil, err
		}
	}
	for _, it := range s.Items {
		i, err := l.Add(entry(it.Value))
		if err != nil {
			return nil, err
		}
		if i < 0 {
			env.logger.Warn("seed entry rejected", "value", it.Value)
			continue
		}
		if err := applyItem(it, func(st int) (int, error) { return l.SetState(i, st) },
			func(on bool) (bool, error) { return l.SetEnabled(i, on) },
			func(on bool) (bool, error) { return l.SetSelected(i, on) }); err != nil {
			return nil, fmt.Errorf("seed %q: %w", it.Value, err)
		}
	}
	if s.Sort != "" {
		order, err := domain.ParseOrder(s.Sort)
		if err != nil {
			return nil, err
		}
		if err := l.Sort(order, nil); err != nil {
			return nil, err
		}
	}
	for _, q := range s.Filters {
		if _, err := l.ApplyFilter(q, 0); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func buildTree(s Seed, env *appEnv) (*tree, error) {
	mode, err := domain.ParseChoiceMode(s.Choice)
	if err != nil {
		return nil, err
	}
	scope, err := domain.ParseSelectionScope(s.Scope)
	if err != nil {
		return nil, err
	}
	e := adapter.NewExpandable[string, entry](
		adapter.WithGroupStates(s.States),
		adapter.WithGroupChoice(mode, scope),
		adapter.WithDuplicateChildren(s.AllowDuplicates),
		adapter.WithUniqueChildrenGlobally(s.UniqueChildren),
		adapter.WithFilterEmptyGroups(s.FilterEmptyGroups),
		adapter.WithGroupLogger(env.logger),
	)
	if env.recorder != nil {
		if _, err := e.AddListener(observability.GroupListener[string, entry](env.recorder, "expandable")); err != nil {
			return nil, err
		}
	}
	for _, g := range s.Groups {
		gi, err := e.AddGroup(g.Value)
		if err != nil {
			return nil, err
		}
		if gi < 0 {
			env.logger.Warn("seed group rejected", "group", g.Value)
			continue
		}
		for _, c := range g.Children {
			ci, err := e.AddChild(gi, entry(c.Value))
			if err != nil {
				return nil, err
			}
			if ci < 0 {
				env.logger.Warn("seed child rejected", "group", g.Value, "value", c.Value)
				continue
			}
			if err := applyItem(c, func(st int) (int, error) { return e.SetChildState(gi, ci, st) },
				func(on bool) (bool, error) { return e.SetChildEnabled(gi, ci, on) },
				func(on bool) (bool, error) { return e.SetChildSelected(gi, ci, on) }); err != nil {
				return nil, fmt.Errorf("seed %s/%s: %w", g.Value, c.Value, err)
			}
		}
		if err := applyItem(g.SeedItem, func(st int) (int, error) { return e.SetGroupState(gi, st) },
			func(on bool) (bool, error) { return e.SetGroupEnabled(gi, on) },
			func(on bool) (bool, error) { return e.SetGroupSelected(gi, on) }); err != nil {
			return nil, fmt.Errorf("seed group %s: %w", g.Value, err)
		}
		if g.Expanded {
			if _, err := e.ExpandGroup(gi); err != nil {
				return nil, err
			}
		}
	}
	if s.Sort != "" {
		order, err := domain.ParseOrder(s.Sort)
		if err != nil {
			return nil, err
		}
		if err := e.SortGroups(order, nil); err != nil {
			return nil, err
		}
		if err := e.SortAllChildren(order, nil); err != nil {
			return nil, err
		}
	}
	for _, q := range s.GroupFilters {
		if _, err := e.ApplyGroupFilter(q, 0); err != nil {
			return nil, err
		}
	}
	for _, q := range s.Filters {
		if _, err := e.ApplyChildFilterAll(q, 0); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// applyItem applies the per entry flags of a seed, in the order state,
// enabled, selected. Selecting a disabled entry is a silent no-op.
func applyItem(it SeedItem, state func(int) (int, error), enable, selectFn func(bool) (bool, error)) error {
	if it.State != 0 {
		if _, err := state(it.State); err != nil {
			return err
		}
	}
	if it.Disabled {
		if _, err := enable(false); err != nil {
			return err
		}
	}
	if it.Selected {
		if _, err := selectFn(true); err != nil {
			return err
		}
	}
	return nil
}
