package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PropertyListModel - Interactive group property selection
// =============================================================================

// PropertyCandidate summarizes one vertex property as a grouping key.
type PropertyCandidate struct {
	Name     string
	Groups   int // distinct values
	Coverage int // vertices carrying the property
	Sample   string
}

// propertyCandidates lists every node property of doc, sorted by name.
func propertyCandidates(doc *document.Document) []PropertyCandidate {
	values := make(map[string]map[string]bool)
	coverage := make(map[string]int)
	samples := make(map[string]string)
	for _, n := range doc.Nodes {
		for k, v := range n.Properties {
			if values[k] == nil {
				values[k] = make(map[string]bool)
				samples[k] = v.String()
			}
			values[k][v.String()] = true
			coverage[k]++
		}
	}

	out := make([]PropertyCandidate, 0, len(values))
	for name, vs := range values {
		out = append(out, PropertyCandidate{
			Name:     name,
			Groups:   len(vs),
			Coverage: coverage[name],
			Sample:   samples[name],
		})
	}
	slices.SortFunc(out, func(a, b PropertyCandidate) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// PropertyListModel is the bubbletea model for interactive group property selection.
type PropertyListModel struct {
	Candidates []PropertyCandidate
	Total      int // vertices in the document
	Cursor     int
	Selected   string
	Height     int
	Offset     int
}

// NewPropertyListModel creates a new property list model.
func NewPropertyListModel(candidates []PropertyCandidate, total int) PropertyListModel {
	return PropertyListModel{
		Candidates: candidates,
		Total:      total,
		Height:     15,
	}
}

func (m PropertyListModel) Init() tea.Cmd {
	return nil
}

func (m PropertyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Candidates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Candidates) > 0 {
				m.Selected = m.Candidates[m.Cursor].Name
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m PropertyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Node Group Property"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Candidates))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Candidates[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			c.Name,
			fmt.Sprintf("%d", c.Groups),
			fmt.Sprintf("%d/%d", c.Coverage, m.Total),
			truncate(c.Sample, 24),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Property", "Groups", "Nodes", "Example").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Candidates))))

	return b.String()
}

// pickGroupProperty runs the picker on stderr. It returns "" when the user
// quits without choosing.
func pickGroupProperty(doc *document.Document) (string, error) {
	candidates := propertyCandidates(doc)
	if len(candidates) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "nodes have no properties to group by")
	}
	p := tea.NewProgram(NewPropertyListModel(candidates, len(doc.Nodes)), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(PropertyListModel).Selected, nil
}

// =============================================================================
// Helpers
// =============================================================================

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
