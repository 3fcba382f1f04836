package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hydrograph/pkg/errors"
	"github.com/matzehuels/hydrograph/pkg/results"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TimeStepModel - Interactive hour selection
// =============================================================================

// TimeStepModel is the bubbletea model for picking the hour to render.
type TimeStepModel struct {
	Hours    []int
	Cursor   int
	Selected int // 0 until a row is chosen
	Height   int
	Offset   int
}

// NewTimeStepModel creates a picker positioned on current when present.
func NewTimeStepModel(hours []int, current int) TimeStepModel {
	m := TimeStepModel{Hours: hours, Height: 15}
	for i, h := range hours {
		if h == current {
			m.Cursor = i
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m TimeStepModel) Init() tea.Cmd {
	return nil
}

func (m TimeStepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Hours)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Hours[m.Cursor]
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

func (m TimeStepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Hour"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Hours))
	for i := m.Offset; i < end; i++ {
		h := m.Hours[i]
		line := fmt.Sprintf("hour %3d  %s", h, listDimStyle.Render(fmt.Sprintf("t = %ds", (h-1)*3600)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Hours))))
	return b.String()
}

// pickTimeStep runs the picker over the whole hours in res. ok is false
// when the user quit without choosing.
func pickTimeStep(res *results.Results, current int) (hour int, ok bool, err error) {
	hours := res.Hours()
	if len(hours) == 0 {
		return 0, false, errors.New(errors.ErrCodeInvalidResults, "results contain no whole-hour time steps")
	}
	final, err := tea.NewProgram(NewTimeStepModel(hours, current)).Run()
	if err != nil {
		return 0, false, fmt.Errorf("time step picker: %w", err)
	}
	m := final.(TimeStepModel)
	return m.Selected, m.Selected > 0, nil
}
