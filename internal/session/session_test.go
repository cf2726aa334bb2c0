package session

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/cgpa/internal/config"
	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
)

func newCatalogSession(t *testing.T) *Session {
	t.Helper()
	return New(Options{Mode: config.ModeCatalog, Exporter: export.NewExporter(t.TempDir()), Logger: zerolog.Nop()})
}

func newFreeSession(t *testing.T) *Session {
	t.Helper()
	return New(Options{Mode: config.ModeFree, Exporter: export.NewExporter(t.TempDir()), Logger: zerolog.Nop()})
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	a, b := newCatalogSession(t), newCatalogSession(t)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessions_AreIsolated(t *testing.T) {
	a, b := newCatalogSession(t), newCatalogSession(t)
	_, err := a.AddSemester("id0", 9)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}

func TestAddSemester_UsesCatalogCredits(t *testing.T) {
	s := newCatalogSession(t)
	_, err := s.AddSemester("id0", 8.5)
	require.NoError(t, err)
	_, err = s.AddSemester("id1", 9.0)
	require.NoError(t, err)

	recs := s.Records()
	assert.Equal(t, 21.0, recs[0].Credits)
	assert.Equal(t, 18.0, recs[1].Credits)
	assert.InDelta(t, 8.7308, s.CGPA(), 1e-4)
}

func TestAddSemester_Rejects(t *testing.T) {
	s := newCatalogSession(t)

	_, err := s.AddSemester("id9", 8)
	assert.ErrorIs(t, err, grades.ErrValidation)

	_, err = s.AddSemester("id0", 10.5)
	assert.ErrorIs(t, err, grades.ErrValidation)

	_, err = s.AddSemester("id0", 8)
	require.NoError(t, err)
	_, err = s.AddSemester("id0", 7)
	assert.ErrorContains(t, err, "already entered")

	_, err = s.AddFree("x", 8, 20)
	assert.ErrorIs(t, err, grades.ErrValidation)
	assert.Equal(t, 1, s.Len())
}

func TestNextLabel_FollowsCatalogOrder(t *testing.T) {
	s := newCatalogSession(t)
	assert.Equal(t, "id0", s.NextLabel())

	s.AddSemester("id0", 8)
	assert.Equal(t, "id1", s.NextLabel())

	s.AddSemester("id3", 8)
	assert.Equal(t, "id4", s.NextLabel())
}

func TestComplete(t *testing.T) {
	s := newCatalogSession(t)
	for _, l := range s.Catalog().Labels() {
		assert.False(t, s.Complete())
		_, err := s.AddSemester(l, 8)
		require.NoError(t, err)
	}
	assert.True(t, s.Complete())
	assert.Equal(t, "", s.NextLabel())
	assert.Empty(t, s.Available())
}

func TestAddFree(t *testing.T) {
	s := newFreeSession(t)
	_, err := s.AddFree("Fall 2024", 8, 20)
	require.NoError(t, err)
	_, err = s.AddFree("  ", 6, 10)
	require.NoError(t, err)

	recs := s.Records()
	assert.Equal(t, "Fall 2024", recs[0].Label)
	assert.Equal(t, "Semester 2", recs[1].Label)

	_, err = s.AddFree("x", 8, 0)
	assert.ErrorIs(t, err, grades.ErrValidation)

	_, err = s.AddSemester("id0", 8)
	assert.ErrorIs(t, err, grades.ErrValidation)
	assert.False(t, s.Complete())
	assert.Equal(t, "", s.NextLabel())
}

func TestAdd_DispatchesByMode(t *testing.T) {
	c := newCatalogSession(t)
	_, err := c.Add("id2", 9, 1)
	require.NoError(t, err)
	assert.Equal(t, 21.5, c.Records()[0].Credits)

	f := newFreeSession(t)
	_, err = f.Add("s", 9, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f.Records()[0].Credits)
}

func TestEdit_CatalogPinsCredits(t *testing.T) {
	s := newCatalogSession(t)
	s.AddSemester("id0", 8)
	s.AddSemester("id1", 7)

	require.NoError(t, s.Edit(0, 9.5, 99))
	recs := s.Records()
	assert.Equal(t, grades.SemesterRecord{Label: "id0", GradePoint: 9.5, Credits: 21}, recs[0])
	assert.Equal(t, grades.SemesterRecord{Label: "id1", GradePoint: 7, Credits: 18}, recs[1])

	assert.ErrorIs(t, s.Edit(5, 9, 20), grades.ErrNotFound)
}

func TestEdit_FreeMode(t *testing.T) {
	s := newFreeSession(t)
	s.AddFree("a", 8, 20)
	require.NoError(t, s.Edit(0, 6, 10))
	assert.Equal(t, 10.0, s.Records()[0].Credits)
	assert.ErrorIs(t, s.Edit(0, 6, -1), grades.ErrValidation)
}

func TestRemoveAndClear(t *testing.T) {
	s := newCatalogSession(t)
	s.AddSemester("id0", 6)
	s.AddSemester("id1", 10)

	rec, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "id1", rec.Label)
	assert.InDelta(t, 6.0, s.CGPA(), 1e-9)

	_, err = s.Remove(1)
	assert.ErrorIs(t, err, grades.ErrNotFound)

	s.Clear()
	assert.Equal(t, 0.0, s.CGPA())
	assert.Equal(t, "id0", s.NextLabel())
}

func TestExport_DefaultFormat(t *testing.T) {
	s := newCatalogSession(t)
	s.AddSemester("id0", 8.5)

	path, err := s.Export("")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Semester,SGPA,Credits\nid0,8.50,21.0\n", string(data))
}

func TestExport_BadFormat(t *testing.T) {
	s := newCatalogSession(t)
	_, err := s.Export("doc")
	assert.Error(t, err)
}

func TestOperations_AreLogged(t *testing.T) {
	var buf bytes.Buffer
	s := New(Options{Logger: zerolog.New(&buf), Exporter: export.NewExporter(t.TempDir())})

	s.AddSemester("id0", 8)
	s.AddSemester("nope", 8)

	out := buf.String()
	assert.Contains(t, out, `"op":"add"`)
	assert.Contains(t, out, `"session":"`+s.ID+`"`)
	assert.Contains(t, out, "operation rejected")
}
