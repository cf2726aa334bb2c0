package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/cgpa/internal/config"
	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/session"
)

func newTestModel(t *testing.T, mode string) (Model, string) {
	t.Helper()
	dir := t.TempDir()
	sess := session.New(session.Options{Mode: mode, Exporter: export.NewExporter(dir), Logger: zerolog.Nop()})
	m := NewModel(sess, "green")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), dir
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func press(m Model, k tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model)
}

func addGrade(m Model, gp string) Model {
	m.inputs[fieldGrade].SetValue(gp)
	return press(m, tea.KeyEnter)
}

func TestHeaderRendering(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	view := m.View()

	assert.Contains(t, view, "CGPA Calculator")
	assert.Contains(t, view, "catalog")
	assert.Contains(t, view, shortID(m.sess.ID))
	assert.Contains(t, view, "No semester data entered yet")
}

func TestCatalogMode_PrefillsNextLabel(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	assert.Equal(t, "id0", m.inputs[fieldLabel].Value())
	assert.Equal(t, fieldGrade, m.focus)
	assert.Contains(t, m.View(), "Predefined Total Credits (Ci)")
	assert.Contains(t, m.View(), "21.0")
}

func TestAddSemester_TypedInput(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = typeText(m, "8.5")
	m = press(m, tea.KeyEnter)

	require.Equal(t, 1, m.sess.Len())
	rec := m.sess.Records()[0]
	assert.Equal(t, "id0", rec.Label)
	assert.Equal(t, 21.0, rec.Credits)

	view := m.View()
	assert.Contains(t, view, "Semester added: Type 'id0', SGPA 8.50, Credits 21.0")
	assert.Contains(t, view, "Overall CGPA: 8.50")
	assert.Equal(t, "id1", m.inputs[fieldLabel].Value())
	assert.Equal(t, "", m.inputs[fieldGrade].Value())
}

func TestAddSemester_WeightedCGPA(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = addGrade(m, "8.5")
	m = addGrade(m, "9")
	assert.Contains(t, m.View(), "Overall CGPA: 8.73")
}

func TestAddSemester_InvalidInput(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)

	m = addGrade(m, "10.5")
	assert.Equal(t, 0, m.sess.Len())
	assert.Contains(t, m.View(), "Invalid input")

	m = addGrade(m, "abc")
	assert.Equal(t, 0, m.sess.Len())
	assert.Contains(t, m.View(), "must be a number")

	m = addGrade(m, "")
	assert.Contains(t, m.View(), "is required")
}

func TestEditSelectedRow(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = addGrade(m, "8")
	m = addGrade(m, "9")

	// cursor follows the last added row
	m = press(m, tea.KeyCtrlE)
	require.True(t, m.editing)
	assert.Equal(t, 1, int(m.editID))
	assert.Equal(t, "9.00", m.inputs[fieldGrade].Value())
	assert.Contains(t, m.View(), "Edit Semester #1")

	m = addGrade(m, "7")
	assert.False(t, m.editing)
	recs := m.sess.Records()
	assert.Equal(t, 8.0, recs[0].GradePoint)
	assert.Equal(t, "id1", recs[1].Label)
	assert.Equal(t, 7.0, recs[1].GradePoint)
	assert.Equal(t, 18.0, recs[1].Credits)
	assert.Contains(t, m.View(), "Semester updated")
}

func TestEditCancelWithEsc(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = addGrade(m, "8")
	m = press(m, tea.KeyCtrlE)
	require.True(t, m.editing)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.editing)
	assert.Equal(t, 8.0, m.sess.Records()[0].GradePoint)
}

func TestRemoveSelectedRow(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = addGrade(m, "6")
	m = addGrade(m, "10")

	m = press(m, tea.KeyCtrlD)
	assert.Equal(t, 1, m.sess.Len())
	assert.Contains(t, m.View(), "Semester Type 'id1' (ID 1) removed.")
	assert.Contains(t, m.View(), "Overall CGPA: 6.00")
}

func TestRemove_EmptyStore(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = press(m, tea.KeyCtrlD)
	assert.Contains(t, m.View(), "No semesters to remove.")
}

func TestClearRequiresConfirmation(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = addGrade(m, "8")

	m = press(m, tea.KeyCtrlL)
	assert.Contains(t, m.View(), "Clear all semesters? [y/n]")
	m = typeText(m, "n")
	assert.Equal(t, 1, m.sess.Len())

	m = press(m, tea.KeyCtrlL)
	m = typeText(m, "y")
	assert.Equal(t, 0, m.sess.Len())
	assert.Contains(t, m.View(), "All semester data cleared.")
	assert.Contains(t, m.View(), "No semester data entered yet")
	assert.Equal(t, "id0", m.inputs[fieldLabel].Value())
}

func TestAllSemestersEntered(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	for range m.sess.Catalog().Labels() {
		m = addGrade(m, "8")
	}
	assert.Equal(t, 8, m.sess.Len())
	assert.Contains(t, m.View(), "All predefined semester types have been entered.")

	m = addGrade(m, "9")
	assert.Equal(t, 8, m.sess.Len())
}

func TestFreeMode_TabThroughFields(t *testing.T) {
	m, _ := newTestModel(t, config.ModeFree)
	require.Equal(t, fieldLabel, m.focus)

	m = typeText(m, "Fall")
	m = press(m, tea.KeyTab)
	m = typeText(m, "8")
	m = press(m, tea.KeyTab)
	assert.Equal(t, fieldCredits, m.focus)
	m = typeText(m, "20")
	m = press(m, tea.KeyEnter)

	require.Equal(t, 1, m.sess.Len())
	rec := m.sess.Records()[0]
	assert.Equal(t, "Fall", rec.Label)
	assert.Equal(t, 8.0, rec.GradePoint)
	assert.Equal(t, 20.0, rec.Credits)
	assert.Contains(t, m.View(), "free")
}

func TestFreeMode_RejectsZeroCredits(t *testing.T) {
	m, _ := newTestModel(t, config.ModeFree)
	m.inputs[fieldGrade].SetValue("8")
	m.inputs[fieldCredits].SetValue("0")
	m = press(m, tea.KeyEnter)
	assert.Equal(t, 0, m.sess.Len())
	assert.Contains(t, m.View(), "credits")
}

func TestTabCyclesToTable(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = press(m, tea.KeyTab)
	assert.Equal(t, fieldTable, m.focus)
	m = press(m, tea.KeyTab)
	assert.Equal(t, fieldLabel, m.focus)
	m = press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldTable, m.focus)
}

func TestExportKey(t *testing.T) {
	m, dir := newTestModel(t, config.ModeCatalog)
	m = press(m, tea.KeyCtrlS)
	assert.Contains(t, m.View(), "Nothing to export yet.")

	m = addGrade(m, "8")
	m = press(m, tea.KeyCtrlS)
	assert.Contains(t, m.View(), "Exported 1 semesters to")

	files, err := export.List(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = press(m, tea.KeyF1)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "close help")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.showHelp)
}

func TestEscQuits(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestPickerSelectsSemester(t *testing.T) {
	m, _ := newTestModel(t, config.ModeCatalog)
	m = addGrade(m, "8")

	m = press(m, tea.KeyCtrlO)
	require.True(t, m.picker.active)
	assert.Contains(t, m.View(), "Semesters")

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyEnter)
	assert.False(t, m.picker.active)
	assert.Equal(t, "id2", m.inputs[fieldLabel].Value())
	assert.Equal(t, 1, m.sess.Len())
}

func TestMakeBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), makeBar(0.5, 10))
	assert.Equal(t, strings.Repeat("█", 10), makeBar(1.5, 10))
	assert.Equal(t, strings.Repeat("░", 10), makeBar(-1, 10))
}

func TestPaletteFor_FallsBack(t *testing.T) {
	assert.Equal(t, Themes["green"], PaletteFor("neon"))
	assert.Equal(t, Themes["amber"], PaletteFor("amber"))
}
