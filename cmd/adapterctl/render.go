package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"adaptercore/pkg/adapter"
)

var (
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleDisabled = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	styleGroup    = lipgloss.NewStyle().Bold(true)
	styleState    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleSummary  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	styleHeader   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
)

// termRenderer renders entries as single terminal lines. It serves both
// adapter kinds.
type termRenderer struct {
	states int
}

func (r termRenderer) line(label string, st adapter.RenderState) string {
	mark := "[ ]"
	if st.Selected {
		mark = "[x]"
	}
	text := label
	switch {
	case !st.Enabled:
		text = styleDisabled.Render(label)
	case st.Selected:
		text = styleSelected.Render(label)
	}
	if r.states > 1 {
		text += " " + styleState.Render(fmt.Sprintf("(%d/%d)", st.State, r.states-1))
	}
	return mark + " " + text
}

func (r termRenderer) Render(data entry, st adapter.RenderState) (adapter.ViewHandle, error) {
	return r.line(string(data), st), nil
}

func (termRenderer) ViewType(entry) int { return 0 }
func (termRenderer) ViewTypeCount() int { return 1 }

func (r termRenderer) RenderGroup(data string, st adapter.GroupRenderState) (adapter.ViewHandle, error) {
	arrow := "▸"
	if st.Expanded {
		arrow = "▾"
	}
	return arrow + " " + r.line(styleGroup.Render(data), st.RenderState), nil
}

func (r termRenderer) RenderChild(_ string, data entry, st adapter.ChildRenderState) (adapter.ViewHandle, error) {
	return "    " + r.line(string(data), st.RenderState), nil
}

func (termRenderer) GroupViewType(string) int { return 0 }
func (termRenderer) ChildViewType(entry) int  { return 0 }
func (termRenderer) GroupViewTypeCount() int  { return 1 }
func (termRenderer) ChildViewTypeCount() int  { return 1 }

func renderList(l *adapter.List[entry]) (string, error) {
	l.SetRenderer(termRenderer{states: l.NumberOfStates()})
	var b strings.Builder
	for i := 0; i < l.Count(); i++ {
		v, err := l.ViewAt(i)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(&b, v)
	}
	fmt.Fprintln(&b, styleSummary.Render(fmt.Sprintf("%d of %d visible, %d selected", l.Count(), l.TotalCount(), l.SelectedCount())))
	return b.String(), nil
}

func renderTree(e *tree) (string, error) {
	e.SetRenderer(termRenderer{states: e.NumberOfStates()})
	var b strings.Builder
	for gi := 0; gi < e.GroupCount(); gi++ {
		v, err := e.GroupView(gi)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(&b, v)
		if open, _ := e.IsGroupExpanded(gi); !open {
			continue
		}
		n, err := e.ChildCount(gi)
		if err != nil {
			return "", err
		}
		for ci := 0; ci < n; ci++ {
			cv, err := e.ChildView(gi, ci)
			if err != nil {
				return "", err
			}
			fmt.Fprintln(&b, cv)
		}
	}
	summary := fmt.Sprintf("%d of %d groups visible, %d children, %d selected children",
		e.GroupCount(), e.TotalGroupCount(), e.TotalChildCount(), e.SelectedChildCount())
	fmt.Fprintln(&b, styleSummary.Render(summary))
	return b.String(), nil
}

// checkpointTable lays out KEY, SIZE and UPDATED rows in a bordered table.
func checkpointTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "SIZE", "UPDATED").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		String()
}
