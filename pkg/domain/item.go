package domain

// Flags carries the attributes tracked next to every stored data value.
type Flags struct {
	State    int  `json:"state"`
	Enabled  bool `json:"enabled"`
	Selected bool `json:"selected"`
}

// Entry is implemented by everything a scope can hold (items and groups).
type Entry[D any] interface {
	Value() D
	Attributes() *Flags
}

// Item wraps a data value stored in a list or in the child list of a group.
// An Item is owned by exactly one store.
type Item[T any] struct {
	Data T
	Flags
}

// NewItem returns an enabled, unselected item in state 0.
func NewItem[T any](data T) *Item[T] {
	return &Item[T]{Data: data, Flags: Flags{Enabled: true}}
}

// Value returns the wrapped data.
func (i *Item[T]) Value() T { return i.Data }

// Attributes exposes the mutable flags of the item.
func (i *Item[T]) Attributes() *Flags { return &i.Flags }
