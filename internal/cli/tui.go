package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ontomask/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TermListModel - Interactive term statistics browser
// =============================================================================

// TermSelection holds the result of the term selection.
type TermSelection struct {
	Annotation pipeline.Annotation
}

// TermListModel is the bubbletea model for browsing per-term statistics.
// Terms whose reachable gene count falls outside the threshold window are
// dimmed; they are the ones a trim at those thresholds would remove.
type TermListModel struct {
	Annotations  []pipeline.Annotation
	TopThresh    int
	BottomThresh int
	Cursor       int
	Selected     *TermSelection
	Height       int
	Offset       int
}

// NewTermListModel creates a new term list model.
func NewTermListModel(annots []pipeline.Annotation, top, bottom int) TermListModel {
	return TermListModel{
		Annotations:  annots,
		TopThresh:    top,
		BottomThresh: bottom,
		Cursor:       0,
		Height:       15,
		Offset:       0,
	}
}

func (m TermListModel) Init() tea.Cmd {
	return nil
}

func (m TermListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Annotations)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			a := m.Annotations[m.Cursor]
			m.Selected = &TermSelection{Annotation: a}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// survives reports whether a trim at the model's thresholds would keep the term.
func (m TermListModel) survives(a pipeline.Annotation) bool {
	return a.DescGenes <= m.TopThresh && a.DescGenes >= m.BottomThresh
}

func (m TermListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Term Statistics"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Annotations) {
		end = len(m.Annotations)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		a := m.Annotations[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		kept := "✓"
		if !m.survives(a) {
			kept = ""
		}

		rows = append(rows, []string{
			cursor,
			a.Term,
			fmt.Sprintf("%d", a.Depth),
			fmt.Sprintf("%d", a.Descendants),
			fmt.Sprintf("%d", a.DescGenes),
			fmt.Sprintf("%d", a.Genes),
			kept,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Term", "Depth", "Desc", "DescGenes", "Genes", "Keeps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Annotations) {
				return lipgloss.NewStyle()
			}
			a := m.Annotations[actualIdx]
			kept := m.survives(a)
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				if kept {
					return base.Foreground(colorGreen).Bold(true)
				}
				return base.Foreground(colorDim).Bold(true)
			}
			if kept {
				return base.Foreground(colorWhite)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Annotations))))

	return b.String()
}
