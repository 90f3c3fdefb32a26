package domain

import (
	"fmt"
	"strings"
)

// ChoiceMode controls how many entries may be selected at once.
type ChoiceMode int

const (
	// ChoiceNone disables selection entirely.
	ChoiceNone ChoiceMode = iota
	// ChoiceSingle allows at most one selected entry across the whole structure.
	ChoiceSingle
	// ChoiceMultiple allows any number of selected entries.
	ChoiceMultiple
)

func (m ChoiceMode) String() string {
	switch m {
	case ChoiceSingle:
		return "single"
	case ChoiceMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// ParseChoiceMode parses the String form of a ChoiceMode.
func ParseChoiceMode(s string) (ChoiceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ChoiceNone, nil
	case "single":
		return ChoiceSingle, nil
	case "multiple":
		return ChoiceMultiple, nil
	}
	return ChoiceNone, fmt.Errorf("unknown choice mode %q: %w", s, ErrInvalidArgument)
}

// SelectionScope refines the choice mode of a two-level structure.
type SelectionScope int

const (
	// ScopeGroupsAndChildren lets both groups and children be selected.
	ScopeGroupsAndChildren SelectionScope = iota
	// ScopeGroupsOnly restricts selection to groups.
	ScopeGroupsOnly
	// ScopeChildrenOnly restricts selection to children.
	ScopeChildrenOnly
)

func (s SelectionScope) String() string {
	switch s {
	case ScopeGroupsOnly:
		return "groups"
	case ScopeChildrenOnly:
		return "children"
	default:
		return "groups_and_children"
	}
}

// ParseSelectionScope parses the String form of a SelectionScope.
func ParseSelectionScope(s string) (SelectionScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "groups_and_children", "both":
		return ScopeGroupsAndChildren, nil
	case "groups":
		return ScopeGroupsOnly, nil
	case "children":
		return ScopeChildrenOnly, nil
	}
	return ScopeGroupsAndChildren, fmt.Errorf("unknown selection scope %q: %w", s, ErrInvalidArgument)
}

// AllowsGroups reports whether groups may be selected.
func (s SelectionScope) AllowsGroups() bool { return s != ScopeChildrenOnly }

// AllowsChildren reports whether children may be selected.
func (s SelectionScope) AllowsChildren() bool { return s != ScopeGroupsOnly }

// DuplicatePolicy is the per-group override of the children duplicate rule.
type DuplicatePolicy int

const (
	// DuplicatesInherit uses the adapter wide default.
	DuplicatesInherit DuplicatePolicy = iota
	// DuplicatesAllow permits data-equal children within the group.
	DuplicatesAllow
	// DuplicatesDeny rejects data-equal children within the group.
	DuplicatesDeny
)

// Resolve returns the effective rule given the inherited default.
func (p DuplicatePolicy) Resolve(inherited bool) bool {
	switch p {
	case DuplicatesAllow:
		return true
	case DuplicatesDeny:
		return false
	default:
		return inherited
	}
}
