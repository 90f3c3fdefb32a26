package adapter

// Host is the widget an adapter is attached to. It only receives refresh
// signals.
type Host interface {
	NotifyDataSetChanged()
	NotifyItemChanged(index int)
}

// ViewHandle is whatever a renderer produces for one entry.
type ViewHandle any

// RenderState describes the entry being rendered.
type RenderState struct {
	Index    int
	ViewType int
	Enabled  bool
	State    int
	Selected bool
	// Filtered is true while at least one filter is active.
	Filtered bool
}

// Renderer turns the data of a List into views.
type Renderer[T any] interface {
	Render(data T, st RenderState) (ViewHandle, error)
	ViewType(data T) int
	ViewTypeCount() int
}

// ChildRenderState describes a child being rendered.
type ChildRenderState struct {
	RenderState
	GroupIndex int
}

// GroupRenderState describes a group being rendered.
type GroupRenderState struct {
	RenderState
	Expanded bool
}

// GroupRenderer turns the data of an Expandable into views.
type GroupRenderer[G, C any] interface {
	RenderGroup(data G, st GroupRenderState) (ViewHandle, error)
	RenderChild(group G, data C, st ChildRenderState) (ViewHandle, error)
	GroupViewType(data G) int
	ChildViewType(data C) int
	GroupViewTypeCount() int
	ChildViewTypeCount() int
}

// attachment tracks the host of an adapter and the auto notify flag.
type attachment struct {
	host   Host
	notify *bool
}

func (a *attachment) attach(h Host) { a.host = h }

func (a *attachment) detach() { a.host = nil }

func (a *attachment) attached() bool { return a.host != nil }

func (a *attachment) structureChanged() {
	if a.host != nil && *a.notify {
		a.host.NotifyDataSetChanged()
	}
}

func (a *attachment) itemChanged(index int) {
	if a.host == nil || !*a.notify || index < 0 {
		return
	}
	a.host.NotifyItemChanged(index)
}
