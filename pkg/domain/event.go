package domain

// Category groups event kinds; listeners subscribe per category.
type Category int

const (
	// CategoryStructure covers additions and removals.
	CategoryStructure Category = iota
	// CategoryEnable covers enabled/disabled transitions.
	CategoryEnable
	// CategoryState covers item state changes.
	CategoryState
	// CategorySelection covers selected/unselected transitions.
	CategorySelection
	// CategoryFilter covers applied and reset filters.
	CategoryFilter
	// CategorySort covers applied sorts.
	CategorySort
	// CategoryExpansion covers expanded/collapsed groups.
	CategoryExpansion
)

// AllCategories lists every category in declaration order.
var AllCategories = []Category{
	CategoryStructure, CategoryEnable, CategoryState, CategorySelection,
	CategoryFilter, CategorySort, CategoryExpansion,
}

func (c Category) String() string {
	switch c {
	case CategoryStructure:
		return "structure"
	case CategoryEnable:
		return "enable"
	case CategoryState:
		return "state"
	case CategorySelection:
		return "selection"
	case CategoryFilter:
		return "filter"
	case CategorySort:
		return "sort"
	case CategoryExpansion:
		return "expansion"
	default:
		return "unknown"
	}
}

// EventKind identifies what happened.
type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventRemoved
	EventEnabled
	EventDisabled
	EventStateChanged
	EventSelected
	EventUnselected
	EventFilterApplied
	EventFilterReset
	EventSorted
	EventExpanded
	EventCollapsed
)

// Category returns the category listeners must subscribe to for k.
func (k EventKind) Category() Category {
	switch k {
	case EventAdded, EventRemoved:
		return CategoryStructure
	case EventEnabled, EventDisabled:
		return CategoryEnable
	case EventStateChanged:
		return CategoryState
	case EventSelected, EventUnselected:
		return CategorySelection
	case EventFilterApplied, EventFilterReset:
		return CategoryFilter
	case EventSorted:
		return CategorySort
	default:
		return CategoryExpansion
	}
}

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventEnabled:
		return "enabled"
	case EventDisabled:
		return "disabled"
	case EventStateChanged:
		return "state_changed"
	case EventSelected:
		return "selected"
	case EventUnselected:
		return "unselected"
	case EventFilterApplied:
		return "filter_applied"
	case EventFilterReset:
		return "filter_reset"
	case EventSorted:
		return "sorted"
	case EventExpanded:
		return "expanded"
	case EventCollapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Event is dispatched by a single level list. Listeners observe the already
// mutated list.
type Event[T any] struct {
	Kind  EventKind
	Data  T
	Index int
	// State is the new state for EventStateChanged.
	State int
	// Filter is the query of EventFilterApplied / EventFilterReset.
	Filter FilterQuery
	// Items holds the entries hidden by an applied filter, the entries made
	// visible again by a reset, or the visible order after a sort.
	Items []T
	Order Order
}

// Target tells whether a GroupEvent concerns a group or a child.
type Target int

const (
	TargetGroup Target = iota
	TargetChild
)

func (t Target) String() string {
	if t == TargetChild {
		return "child"
	}
	return "group"
}

// GroupEvent is dispatched by a two-level structure. For TargetChild events
// Group/GroupIndex identify the owning group.
type GroupEvent[G, C any] struct {
	Kind       EventKind
	Target     Target
	Group      G
	GroupIndex int
	Child      C
	ChildIndex int
	State      int
	Filter     FilterQuery
	Groups     []G
	Children   []C
	Order      Order
}

// Listener receives events of a List.
type Listener[T any] interface {
	HandleEvent(Event[T])
}

// GroupListener receives events of an Expandable.
type GroupListener[G, C any] interface {
	HandleEvent(GroupEvent[G, C])
}

// ListenerFunc adapts a function to a Listener. Each call returns a distinct
// listener identity.
func ListenerFunc[T any](fn func(Event[T])) Listener[T] {
	return &funcListener[T]{fn: fn}
}

type funcListener[T any] struct{ fn func(Event[T]) }

func (l *funcListener[T]) HandleEvent(ev Event[T]) { l.fn(ev) }

// GroupListenerFunc adapts a function to a GroupListener.
func GroupListenerFunc[G, C any](fn func(GroupEvent[G, C])) GroupListener[G, C] {
	return &groupFuncListener[G, C]{fn: fn}
}

type groupFuncListener[G, C any] struct{ fn func(GroupEvent[G, C]) }

func (l *groupFuncListener[G, C]) HandleEvent(ev GroupEvent[G, C]) { l.fn(ev) }
