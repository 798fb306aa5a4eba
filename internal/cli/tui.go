package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	pkgio "github.com/ontoloviz/ontoloviz/pkg/io"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowserModel - Interactive branch browser
// =============================================================================

// listView is a scrollable cursor over n items.
type listView struct {
	Cursor int
	Offset int
	Height int
}

func (l *listView) move(delta, n int) {
	l.Cursor = min(max(l.Cursor+delta, 0), max(n-1, 0))
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.Height {
		l.Offset = l.Cursor - l.Height + 1
	}
}

func (l listView) window(n int) (int, int) {
	return l.Offset, min(l.Offset+l.Height, n)
}

// BrowserModel lists the branches of a forest; enter opens a branch and
// lists its nodes in tree order, backspace returns to the branch list.
type BrowserModel struct {
	Branches []*ontology.Branch
	Open     *ontology.Branch

	branchList listView
	nodeList   listView
	nodes      []*ontology.Node // Open branch in tree order
	depth      []int
}

func newBrowserModel(f *ontology.Forest) BrowserModel {
	return BrowserModel{
		Branches:   f.Branches(),
		branchList: listView{Height: 15},
		nodeList:   listView{Height: 15},
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			if m.Open == nil {
				return m, tea.Quit
			}
			m.Open = nil
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.branchList.Height)
		case "pgdown":
			m.move(m.branchList.Height)
		case "enter", "right", "l":
			if m.Open == nil && len(m.Branches) > 0 {
				m.open(m.Branches[m.branchList.Cursor])
			}
		}
	case tea.WindowSizeMsg:
		h := max(msg.Height-8, 5)
		m.branchList.Height, m.nodeList.Height = h, h
	}
	return m, nil
}

func (m *BrowserModel) move(delta int) {
	if m.Open == nil {
		m.branchList.move(delta, len(m.Branches))
		return
	}
	m.nodeList.move(delta, len(m.nodes))
}

// open flattens b into tree order.
func (m *BrowserModel) open(b *ontology.Branch) {
	children := make(map[string][]*ontology.Node)
	for _, n := range b.Nodes() {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n)
		}
	}
	m.nodes, m.depth = m.nodes[:0], m.depth[:0]
	var walk func(n *ontology.Node, d int)
	walk = func(n *ontology.Node, d int) {
		m.nodes = append(m.nodes, n)
		m.depth = append(m.depth, d)
		for _, c := range children[n.ID] {
			walk(c, d+1)
		}
	}
	if root := b.Root(); root != nil {
		walk(root, 0)
	}
	m.Open = b
	m.nodeList = listView{Height: m.nodeList.Height}
}

func (m BrowserModel) View() string {
	if m.Open != nil {
		return m.nodeView()
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Branches"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	start, end := m.branchList.window(len(m.Branches))
	for i := start; i < end; i++ {
		s := summarise(m.Branches[i])
		line := fmt.Sprintf("%-14s %-40s %6d nodes  %10s",
			s.id, truncate(s.label, 40), s.nodes, pkgio.FormatCount(s.total))
		b.WriteString(m.row(i == m.branchList.Cursor, line, s.color))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.branchList.Cursor+1, len(m.Branches))))
	return b.String()
}

func (m BrowserModel) nodeView() string {
	var b strings.Builder
	root := m.Open.Root()
	title := m.Open.ID
	if root != nil && root.Label != "" {
		title += " " + root.Label
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⌫ back  q quit"))
	b.WriteString("\n\n")

	start, end := m.nodeList.window(len(m.nodes))
	for i := start; i < end; i++ {
		n := m.nodes[i]
		label := strings.Repeat("  ", m.depth[i]) + n.Label
		if n.IsArtificial() {
			label += " (placeholder)"
		}
		line := fmt.Sprintf("%-50s %10s", truncate(label, 50), pkgio.FormatCount(n.ImportedCount))
		b.WriteString(m.row(i == m.nodeList.Cursor, line, n.Color))
	}

	if m.nodeList.Cursor < len(m.nodes) {
		n := m.nodes[m.nodeList.Cursor]
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · level %d · count %s · %d below",
			n.ID, n.Level, pkgio.FormatCount(n.Count), n.ChildrenCount)))
		if n.Description != "" {
			b.WriteString("\n")
			b.WriteString(listDimStyle.Render("  " + truncate(strings.ReplaceAll(n.Description, "\n", " · "), 100)))
		}
	}
	return b.String()
}

func (m BrowserModel) row(selected bool, line, color string) string {
	cursor := "  "
	style := listNormalStyle
	if selected {
		cursor = "▸ "
		style = listSelectedStyle
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
	return cursor + dot + " " + style.Render(line) + "\n"
}
