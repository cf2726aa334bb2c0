package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
)

type semesterItem struct {
	label   string
	credits float64
}

func (i semesterItem) Title() string       { return i.label }
func (i semesterItem) Description() string { return export.FormatCredits(i.credits) + " credits" }
func (i semesterItem) FilterValue() string { return i.label }

// PickerModel is a popup list of the catalog semesters still available.
type PickerModel struct {
	list     list.Model
	active   bool
	selected string
}

func NewPickerModel(st Styles) PickerModel {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(st.Palette.Accent).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(st.Palette.Accent).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(st.Palette.Dim)

	l := list.New(nil, d, 30, 14)
	l.Title = "Semesters"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(st.Palette.Accent).Bold(true).MarginLeft(2)

	return PickerModel{list: l}
}

// Open fills the list with the available labels and shows it.
func (m *PickerModel) Open(cat *grades.Catalog, available []string) {
	items := make([]list.Item, 0, len(available))
	for _, label := range available {
		c, _ := cat.Credits(label)
		items = append(items, semesterItem{label: label, credits: c})
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
	m.list.ResetFilter()
	m.selected = ""
	m.active = true
}

func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			if m.list.FilterState() != list.Filtering {
				m.active = false
				return m, nil
			}
		case "enter":
			if m.list.FilterState() != list.Filtering {
				if it, ok := m.list.SelectedItem().(semesterItem); ok {
					m.selected = it.label
				}
				m.active = false
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) View(st Styles) string {
	if !m.active {
		return ""
	}
	return st.Box.Render(m.list.View())
}

// Selected returns the label chosen on the last close and clears it.
func (m *PickerModel) Selected() string {
	s := m.selected
	m.selected = ""
	return s
}
