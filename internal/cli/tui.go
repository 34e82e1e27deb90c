package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Interactive layer tree browser
// =============================================================================

// TreeModel is the bubbletea model of the interactive layer tree.
type TreeModel struct {
	Title     string
	Rows      []treeRow
	Collapsed map[string]bool
	Cursor    int
	Offset    int
	Height    int
}

func newTreeModel(title string, rows []treeRow) TreeModel {
	return TreeModel{
		Title:     title,
		Rows:      rows,
		Collapsed: map[string]bool{},
		Height:    15,
	}
}

// visible returns the rows not hidden under a collapsed group.
func (m TreeModel) visible() []treeRow {
	out := make([]treeRow, 0, len(m.Rows))
	for _, r := range m.Rows {
		if !slices.ContainsFunc(r.parents, func(id string) bool { return m.Collapsed[id] }) {
			out = append(out, r)
		}
	}
	return out
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	rows := m.visible()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(rows)-1, 0)
		case "enter", " ", "right", "left", "l", "h":
			if m.Cursor < len(rows) && rows[m.Cursor].kind == rowGroup {
				id := rows[m.Cursor].id
				switch msg.String() {
				case "right", "l":
					delete(m.Collapsed, id)
				case "left", "h":
					m.Collapsed[id] = true
				default:
					if m.Collapsed[id] {
						delete(m.Collapsed, id)
					} else {
						m.Collapsed[id] = true
					}
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the window.
func (m *TreeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TreeModel) View() string {
	var b strings.Builder
	rows := m.visible()

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ collapse/expand  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(rows))
	for i := m.Offset; i < end; i++ {
		r := rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = listSelectedStyle.Render("▸ ")
		}
		icon := ""
		if r.kind == rowGroup && m.Collapsed[r.id] {
			icon = listDimStyle.Render(" (+)")
		}
		b.WriteString(cursor + strings.Repeat("  ", r.depth) + r.label() + icon + "\n")
	}

	if m.Cursor < len(rows) {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %s", m.Cursor+1, len(rows), rows[m.Cursor].id)))
	}
	return b.String()
}
