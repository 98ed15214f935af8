// Package preview implements the interactive AST tree browser shared by
// cmd/cmarkview and, when stdout is a terminal, cmd/cmarkfmt's default
// "render with nothing to render to" fallback. It follows the teacher's
// tui.MenuPicker shape, but swaps its hand-rolled cursor/viewport logic
// for bubbles/table, flattening the tree into rows up front.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	commonmark "github.com/ttencate/commonmark-gfm"
)

type row struct {
	node  *commonmark.Node
	depth int
}

// Model is the bubbletea model for the AST previewer.
type Model struct {
	title    string
	rows     []row
	table    table.Model
	quitting bool
}

// New flattens root's subtree into a scrollable, indented table of rows.
func New(title string, root *commonmark.Node) *Model {
	var rows []row
	root.Traverse(func(n *commonmark.Node, edge commonmark.TraverseEdge) bool {
		if edge != commonmark.Enter {
			return true
		}
		depth := -1
		for a := n; a != nil; a = a.Parent() {
			depth++
		}
		rows = append(rows, row{node: n, depth: depth})
		return true
	})

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Kind", Width: 28},
			{Title: "Sourcepos", Width: 12},
			{Title: "Literal", Width: 60},
		}),
		table.WithRows(tableRows(rows)),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = selectedStyle()
	t.SetStyles(styles)

	return &Model{title: title, rows: rows, table: t}
}

func tableRows(rows []row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		indent := strings.Repeat("  ", r.depth)
		kind := indent + r.node.Kind().String()
		pos := ""
		if sp := r.node.Sourcepos(); !sp.IsZero() {
			pos = fmt.Sprintf("%d:%d", sp.Start.Line, sp.Start.Column)
		}
		lit := ""
		if l := r.node.Literal(); l != "" {
			lit = truncate(l, 60)
		}
		out[i] = table.Row{kind, pos, lit}
	}
	return out
}

// Run starts the bubbletea program and blocks until the user quits.
func Run(title string, root *commonmark.Node) error {
	_, err := tea.NewProgram(New(title, root)).Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 4
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(titleStyle().Render(m.title))
	sb.WriteString("\n")
	sb.WriteString(m.table.View())
	sb.WriteString("\n")
	sb.WriteString(helpStyle().Render(fmt.Sprintf("%d/%d  ↑/↓ move  g/G top/bottom  q quit", m.table.Cursor()+1, len(m.rows))))
	return sb.String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) <= n {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q…", s[:n])
}
