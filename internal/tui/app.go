package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
	"github.com/jeanpaul/cgpa/internal/session"
)

const (
	fieldLabel = iota
	fieldGrade
	fieldCredits
	fieldTable
)

type statusKind int

const (
	statusNone statusKind = iota
	statusInfo
	statusSuccess
	statusWarn
	statusError
)

var pickKey = key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "choose semester"))

type Model struct {
	width, height int

	sess   *session.Session
	st     Styles
	keys   keyMap
	help   help.Model
	inputs [3]textinput.Model
	focus  int
	table  table.Model
	picker PickerModel

	helpView   string
	showHelp   bool
	confirming bool // waiting for y/n on clear
	editing    bool
	editID     grades.RecordID
	status     string
	statusKind statusKind
}

// NewModel builds the interactive form around sess using the named theme.
func NewModel(sess *session.Session, theme string) Model {
	pal := PaletteFor(theme)
	st := NewStyles(pal)

	var inputs [3]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 40
		ti.TextStyle = lipgloss.NewStyle().Foreground(pal.Text)
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(pal.Dim)
		inputs[i] = ti
	}
	inputs[fieldLabel].Placeholder = "semester label"
	inputs[fieldGrade].Placeholder = "0.00 - 10.00"
	inputs[fieldCredits].Placeholder = "credits"
	inputs[fieldGrade].CharLimit = 8
	inputs[fieldCredits].CharLimit = 8

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(pal.Dark).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.Foreground(pal.Black).Background(pal.Accent)

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 4},
			{Title: "Semester", Width: 16},
			{Title: "SGPA", Width: 8},
			{Title: "Credits", Width: 8},
		}),
		table.WithHeight(8),
	)
	t.SetStyles(ts)

	m := Model{
		sess:     sess,
		st:       st,
		keys:     newKeyMap(),
		help:     help.New(),
		inputs:   inputs,
		table:    t,
		picker:   NewPickerModel(st),
		helpView: renderHelp(pal.GlamStyle),
	}

	if sess.IsCatalogMode() {
		m.inputs[fieldLabel].SetValue(sess.NextLabel())
		m.setFocus(fieldGrade)
	} else {
		m.setFocus(fieldLabel)
	}
	m.refreshTable()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		rows := msg.Height - 22
		if rows < 3 {
			rows = 3
		}
		m.table.SetHeight(rows)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.picker.active {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if !m.picker.active {
			if sel := m.picker.Selected(); sel != "" {
				m.inputs[fieldLabel].SetValue(sel)
				m.setStatus(statusInfo, fmt.Sprintf("Semester '%s' selected", sel))
				return m, m.setFocus(fieldGrade)
			}
		}
		return m, cmd
	}

	if m.confirming {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirming = false
			m.sess.Clear()
			m.cancelEdit()
			m.resetInputs()
			m.refreshTable()
			m.setStatus(statusInfo, "All semester data cleared.")
		case key.Matches(msg, m.keys.Deny):
			m.confirming = false
			m.setStatus(statusNone, "")
		}
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.editing {
			m.cancelEdit()
			m.resetInputs()
			m.setStatus(statusInfo, "Edit cancelled.")
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus(m.step(1))

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus(m.step(-1))

	case key.Matches(msg, pickKey):
		if !m.sess.IsCatalogMode() || m.editing {
			return m, nil
		}
		if m.sess.Complete() {
			m.setStatus(statusInfo, "All predefined semester types have been entered.")
			return m, nil
		}
		m.picker.Open(m.sess.Catalog(), m.sess.Available())
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m, m.startEdit()

	case key.Matches(msg, m.keys.Remove):
		m.removeSelected()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.sess.Len() > 0 {
			m.confirming = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.exportRecords()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.focus == fieldTable {
			return m, m.startEdit()
		}
		m.submit()
		return m, nil
	}

	return m.forward(msg)
}

// forward passes msg to whichever widget has focus.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldTable {
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// fields lists the focus stops for the current mode and edit state.
func (m *Model) fields() []int {
	var out []int
	if !m.editing {
		out = append(out, fieldLabel)
	}
	out = append(out, fieldGrade)
	if !m.sess.IsCatalogMode() {
		out = append(out, fieldCredits)
	}
	return append(out, fieldTable)
}

func (m *Model) step(delta int) int {
	fs := m.fields()
	pos := 0
	for i, f := range fs {
		if f == m.focus {
			pos = i
		}
	}
	return fs[(pos+delta+len(fs))%len(fs)]
}

func (m *Model) setFocus(f int) tea.Cmd {
	m.focus = f
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.table.Blur()
	if f == fieldTable {
		m.table.Focus()
		return nil
	}
	return m.inputs[f].Focus()
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusKind = kind
	m.status = msg
}

func (m *Model) setError(err error) {
	var ve *grades.ValidationError
	var nf *grades.NotFoundError
	switch {
	case errors.As(err, &ve):
		m.setStatus(statusError, "Invalid input: "+ve.Error())
	case errors.As(err, &nf):
		m.setStatus(statusError, "Invalid semester ID: "+nf.Error())
	default:
		m.setStatus(statusError, err.Error())
	}
}

func (m *Model) submit() {
	gp, err := parseField("SGPA", m.inputs[fieldGrade].Value())
	if err != nil {
		m.setError(err)
		return
	}

	var credits float64
	if !m.sess.IsCatalogMode() {
		if credits, err = parseField("credits", m.inputs[fieldCredits].Value()); err != nil {
			m.setError(err)
			return
		}
	}

	if m.editing {
		if err := m.sess.Edit(m.editID, gp, credits); err != nil {
			m.setError(err)
			return
		}
		rec := m.sess.Records()[m.editID]
		m.setStatus(statusSuccess, fmt.Sprintf("Semester updated: '%s', SGPA %s, Credits %s",
			rec.Label, export.FormatGradePoint(rec.GradePoint), export.FormatCredits(rec.Credits)))
		m.cancelEdit()
		m.resetInputs()
		m.refreshTable()
		return
	}

	if m.sess.Complete() {
		m.setStatus(statusInfo, "All predefined semester types have been entered.")
		return
	}

	label := strings.TrimSpace(m.inputs[fieldLabel].Value())
	if label == "" && m.sess.IsCatalogMode() {
		label = m.sess.NextLabel()
	}
	id, err := m.sess.Add(label, gp, credits)
	if err != nil {
		m.setError(err)
		return
	}
	rec := m.sess.Records()[id]
	m.setStatus(statusSuccess, fmt.Sprintf("Semester added: Type '%s', SGPA %s, Credits %s",
		rec.Label, export.FormatGradePoint(rec.GradePoint), export.FormatCredits(rec.Credits)))
	m.resetInputs()
	m.refreshTable()
	m.table.SetCursor(int(id))
}

func (m *Model) startEdit() tea.Cmd {
	if m.sess.Len() == 0 {
		m.setStatus(statusWarn, "No semesters to edit.")
		return nil
	}
	id := grades.RecordID(m.table.Cursor())
	rec, err := m.sessRecord(id)
	if err != nil {
		m.setError(err)
		return nil
	}
	m.editing = true
	m.editID = id
	m.inputs[fieldLabel].SetValue(rec.Label)
	m.inputs[fieldGrade].SetValue(export.FormatGradePoint(rec.GradePoint))
	m.inputs[fieldCredits].SetValue(export.FormatCredits(rec.Credits))
	m.setStatus(statusInfo, fmt.Sprintf("Editing #%d '%s': enter to apply, esc to cancel", id, rec.Label))
	return m.setFocus(fieldGrade)
}

func (m *Model) sessRecord(id grades.RecordID) (grades.SemesterRecord, error) {
	recs := m.sess.Records()
	if id < 0 || int(id) >= len(recs) {
		return grades.SemesterRecord{}, &grades.NotFoundError{ID: id, Len: len(recs)}
	}
	return recs[id], nil
}

func (m *Model) cancelEdit() {
	if !m.editing {
		return
	}
	m.editing = false
	if m.focus == fieldLabel {
		m.setFocus(fieldGrade)
	}
}

func (m *Model) removeSelected() {
	if m.sess.Len() == 0 {
		m.setStatus(statusWarn, "No semesters to remove.")
		return
	}
	id := grades.RecordID(m.table.Cursor())
	rec, err := m.sess.Remove(id)
	if err != nil {
		m.setError(err)
		return
	}
	if m.editing {
		m.cancelEdit()
		m.resetInputs()
	} else if m.sess.IsCatalogMode() && strings.TrimSpace(m.inputs[fieldLabel].Value()) == "" {
		m.inputs[fieldLabel].SetValue(m.sess.NextLabel())
	}
	m.refreshTable()
	m.setStatus(statusWarn, fmt.Sprintf("Semester Type '%s' (ID %d) removed.", rec.Label, id))
}

func (m *Model) exportRecords() {
	if m.sess.Len() == 0 {
		m.setStatus(statusWarn, "Nothing to export yet.")
		return
	}
	path, err := m.sess.Export("")
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(statusSuccess, fmt.Sprintf("Exported %d semesters to %s", m.sess.Len(), path))
}

func (m *Model) resetInputs() {
	m.inputs[fieldGrade].SetValue("")
	m.inputs[fieldCredits].SetValue("")
	if m.sess.IsCatalogMode() {
		m.inputs[fieldLabel].SetValue(m.sess.NextLabel())
	} else {
		m.inputs[fieldLabel].SetValue("")
	}
}

func (m *Model) refreshTable() {
	recs := m.sess.Records()
	rows := make([]table.Row, len(recs))
	for i, r := range recs {
		cols := export.Row(r)
		rows[i] = table.Row{strconv.Itoa(i), cols[0], cols[1], cols[2]}
	}
	m.table.SetRows(rows)
	if n := len(rows); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

func parseField(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &grades.ValidationError{Field: name, Value: `""`, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &grades.ValidationError{Field: name, Value: raw, Reason: "must be a number"}
	}
	return v, nil
}

func (m Model) View() string {
	var sb strings.Builder

	mode := "catalog"
	if !m.sess.IsCatalogMode() {
		mode = "free"
	}
	sb.WriteString(m.st.Banner.Render("Flexible CGPA Calculator"))
	sb.WriteString("  " + m.st.StatusBar.Render(mode) + " " + m.st.Help.Render("session "+shortID(m.sess.ID)))
	sb.WriteString("\n\n")

	if m.showHelp {
		sb.WriteString(m.helpView)
		sb.WriteString(m.st.Help.Render("f1 or esc to close help"))
		return sb.String()
	}

	sb.WriteString(m.viewForm())
	sb.WriteString("\n")

	if pv := m.picker.View(m.st); pv != "" {
		sb.WriteString(pv + "\n")
	}

	if m.sess.Len() > 0 {
		sb.WriteString(m.st.Label.Render("Entered Semesters") + "\n")
		sb.WriteString(m.st.Box.Render(m.table.View()) + "\n")
	}
	sb.WriteString(formatSummary(m.sess.Summary(), m.st) + "\n\n")

	if m.confirming {
		sb.WriteString(m.st.Confirm.Render("  ⚠ Clear all semesters? [y/n]") + "\n")
	} else if m.status != "" {
		sb.WriteString(m.viewStatus() + "\n")
	}

	sb.WriteString("\n" + m.help.View(m.keys))
	return sb.String()
}

func (m Model) viewForm() string {
	title := "Add New Semester Data"
	if m.editing {
		title = fmt.Sprintf("Edit Semester #%d", m.editID)
	}

	var rows []string
	rows = append(rows, m.st.Label.Render(title))

	if m.sess.Complete() && !m.editing {
		rows = append(rows, m.st.Info.Render("All predefined semester types have been entered."))
		return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
	}

	labelName := "Semester"
	if m.sess.IsCatalogMode() {
		labelName = "Semester Type"
	}
	rows = append(rows, m.viewInput(labelName, fieldLabel))
	rows = append(rows, m.viewInput("Semester SGPA (Si)", fieldGrade))

	if m.sess.IsCatalogMode() {
		credits := "-"
		if c, ok := m.sess.Catalog().Credits(strings.TrimSpace(m.inputs[fieldLabel].Value())); ok {
			credits = export.FormatCredits(c)
		}
		rows = append(rows, "  "+m.st.Help.Render("Predefined Total Credits (Ci): ")+m.st.Value.Render(credits))
		if !m.editing {
			rows = append(rows, "  "+m.st.Help.Render("Available: "+strings.Join(m.sess.Available(), " ")+"  (ctrl+o to choose)"))
		}
	} else {
		rows = append(rows, m.viewInput("Total Credits (Ci)", fieldCredits))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (m Model) viewInput(name string, field int) string {
	box := m.st.InputBorder
	if m.focus == field {
		box = m.st.InputActive
	}
	if field == fieldLabel && m.editing {
		return "  " + m.st.Help.Render(name+": ") + m.st.Value.Render(m.inputs[field].Value())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		"  "+m.st.Help.Render(fmt.Sprintf("%-20s", name)),
		box.Width(24).Render(m.inputs[field].View()),
	)
}

func (m Model) viewStatus() string {
	switch m.statusKind {
	case statusSuccess:
		return m.st.Success.Render("  ✓ " + m.status)
	case statusWarn:
		return m.st.Confirm.Render("  ⚠ " + m.status)
	case statusError:
		return m.st.Error.Render("  ✗ " + m.status)
	default:
		return m.st.Info.Render("  ℹ " + m.status)
	}
}
