// Package codec defines the persisted layout of adapter snapshots: a
// versioned JSON envelope around a list or expandable payload.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"adaptercore/pkg/domain"
)

// Version is the current snapshot layout version.
const Version = 1

// Snapshot kinds.
const (
	KindList       = "list"
	KindExpandable = "expandable"
)

// Envelope wraps every snapshot.
type Envelope struct {
	Version int             `json:"version"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Item is one persisted entry.
type Item[T any] struct {
	Data     T    `json:"data"`
	State    int  `json:"state"`
	Enabled  bool `json:"enabled"`
	Selected bool `json:"selected,omitempty"`
}

// NewItem captures data with its flags.
func NewItem[T any](data T, f domain.Flags) Item[T] {
	return Item[T]{Data: data, State: f.State, Enabled: f.Enabled, Selected: f.Selected}
}

// Flags returns the persisted flags.
func (i Item[T]) Flags() domain.Flags {
	return domain.Flags{State: i.State, Enabled: i.Enabled, Selected: i.Selected}
}

// Filter is one persisted filter query. Custom marks queries that were
// applied with an explicit predicate, which must be supplied again on
// restore.
type Filter struct {
	Query  string `json:"query"`
	Flags  int    `json:"flags"`
	Custom bool   `json:"custom,omitempty"`
}

// FilterQuery returns the query value.
func (f Filter) FilterQuery() domain.FilterQuery {
	return domain.FilterQuery{Query: f.Query, Flags: f.Flags}
}

// Sort is the remembered sort of a scope.
type Sort struct {
	Order  string `json:"order"`
	Custom bool   `json:"custom,omitempty"`
}

// Scope is one persisted list: entries in store order, active filters in
// application order and the remembered sort.
type Scope[T any] struct {
	Items   []Item[T] `json:"items"`
	Filters []Filter  `json:"filters,omitempty"`
	Sort    *Sort     `json:"sort,omitempty"`
}

// ListSettings are the persisted flags of a list.
type ListSettings struct {
	AllowDuplicates bool   `json:"allow_duplicates"`
	NumberOfStates  int    `json:"number_of_states"`
	ChoiceMode      string `json:"choice_mode"`
	AdaptSelection  bool   `json:"adapt_selection"`
	NotifyOnChange  bool   `json:"notify_on_change"`
}

// ListSnapshot is the payload of KindList.
type ListSnapshot[T any] struct {
	Settings ListSettings `json:"settings"`
	Scope    Scope[T]     `json:"scope"`
}

// GroupSettings are the persisted flags of an expandable.
type GroupSettings struct {
	AllowDuplicateGroups    bool   `json:"allow_duplicate_groups"`
	AllowDuplicateChildren  bool   `json:"allow_duplicate_children"`
	UniqueChildrenGlobally  bool   `json:"unique_children_globally"`
	NumberOfStates          int    `json:"number_of_states"`
	ChoiceMode              string `json:"choice_mode"`
	SelectionScope          string `json:"selection_scope"`
	AdaptSelection          bool   `json:"adapt_selection"`
	NotifyOnChange          bool   `json:"notify_on_change"`
	ChildEnableFollowsGroup bool   `json:"child_enable_follows_group"`
	ChildStateFollowsGroup  bool   `json:"child_state_follows_group"`
	FilterEmptyGroups       bool   `json:"filter_empty_groups"`
}

// Group is one persisted group with its children.
type Group[G, C any] struct {
	Item[G]
	Expanded   bool     `json:"expanded"`
	Duplicates int      `json:"duplicates,omitempty"`
	Children   Scope[C] `json:"children"`
}

// ExpandableSnapshot is the payload of KindExpandable.
type ExpandableSnapshot[G, C any] struct {
	Settings GroupSettings `json:"settings"`
	Groups   []Group[G, C] `json:"groups"`
	Filters  []Filter      `json:"filters,omitempty"`
	Sort     *Sort         `json:"sort,omitempty"`
}

// Encode wraps payload in an envelope of the given kind.
func Encode(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	out, err := json.Marshal(Envelope{Version: Version, Kind: kind, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", kind, err)
	}
	return out, nil
}

// Decode unwraps blob into payload. Every failure wraps
// domain.ErrInvalidSnapshot.
func Decode(blob []byte, kind string, payload any) error {
	if len(bytes.TrimSpace(blob)) == 0 {
		return fmt.Errorf("decode %s: empty blob: %w", kind, domain.ErrInvalidSnapshot)
	}
	var env Envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return fmt.Errorf("decode %s envelope: %v: %w", kind, err, domain.ErrInvalidSnapshot)
	}
	if env.Version != Version {
		return fmt.Errorf("decode %s: unsupported version %d: %w", kind, env.Version, domain.ErrInvalidSnapshot)
	}
	if env.Kind != kind {
		return fmt.Errorf("decode %s: blob holds %q: %w", kind, env.Kind, domain.ErrInvalidSnapshot)
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return fmt.Errorf("decode %s: missing payload: %w", kind, domain.ErrInvalidSnapshot)
	}
	if err := json.Unmarshal(env.Payload, payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", kind, err, domain.ErrInvalidSnapshot)
	}
	return nil
}

// Peek reports the version and kind recorded in blob without decoding the
// payload.
func Peek(blob []byte) (version int, kind string, err error) {
	var env struct {
		Version int    `json:"version"`
		Kind    string `json:"kind"`
	}
	if err := json.Unmarshal(blob, &env); err != nil {
		return 0, "", fmt.Errorf("peek envelope: %v: %w", err, domain.ErrInvalidSnapshot)
	}
	return env.Version, env.Kind, nil
}
