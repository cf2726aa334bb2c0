package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeanpaul/cgpa/internal/config"
	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
)

// Options configures a new session.
type Options struct {
	Mode     string // config.ModeCatalog or config.ModeFree
	Catalog  *grades.Catalog
	Exporter *export.Exporter
	Format   string
	Logger   zerolog.Logger
}

// Session owns one grade store for the lifetime of an interactive run.
// It is driven by a single front end and is not safe for concurrent use.
type Session struct {
	ID   string
	Mode string

	catalog  *grades.Catalog
	store    *grades.Store
	exporter *export.Exporter
	format   string
	last     string // label of the most recently added catalog semester
	log      zerolog.Logger
}

func New(opts Options) *Session {
	if opts.Mode == "" {
		opts.Mode = config.ModeCatalog
	}
	if opts.Catalog == nil {
		opts.Catalog = grades.DefaultCatalog()
	}
	if opts.Exporter == nil {
		opts.Exporter = export.NewExporter(".")
	}
	if opts.Format == "" {
		opts.Format = export.FormatCSV
	}
	id := uuid.New().String()
	return &Session{
		ID:       id,
		Mode:     opts.Mode,
		catalog:  opts.Catalog,
		store:    grades.NewStore(),
		exporter: opts.Exporter,
		format:   opts.Format,
		log:      opts.Logger.With().Str("session", id).Logger(),
	}
}

func (s *Session) Catalog() *grades.Catalog { return s.catalog }

func (s *Session) IsCatalogMode() bool { return s.Mode == config.ModeCatalog }

// AddSemester adds a catalog semester; its credits come from the catalog.
func (s *Session) AddSemester(label string, gp float64) (grades.RecordID, error) {
	if !s.IsCatalogMode() {
		return -1, s.fail("add", &grades.ValidationError{Field: "mode", Value: s.Mode, Reason: "credits are required in free mode"})
	}
	credits, ok := s.catalog.Credits(label)
	if !ok {
		return -1, s.fail("add", &grades.ValidationError{Field: "label", Value: label, Reason: "not in the semester catalog"})
	}
	for _, used := range s.store.Labels() {
		if used == label {
			return -1, s.fail("add", &grades.ValidationError{Field: "label", Value: label, Reason: "already entered"})
		}
	}
	id, err := s.store.Add(label, gp, credits)
	if err != nil {
		return -1, s.fail("add", err)
	}
	s.last = label
	s.log.Info().Str("op", "add").Str("label", label).Float64("sgpa", gp).Float64("credits", credits).Int("id", int(id)).Msg("semester added")
	return id, nil
}

// AddFree adds a free-text semester with explicit credits. An empty label
// becomes "Semester N".
func (s *Session) AddFree(label string, gp, credits float64) (grades.RecordID, error) {
	if s.IsCatalogMode() {
		return -1, s.fail("add", &grades.ValidationError{Field: "mode", Value: s.Mode, Reason: "credits come from the catalog"})
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Semester %d", s.store.Len()+1)
	}
	id, err := s.store.Add(label, gp, credits)
	if err != nil {
		return -1, s.fail("add", err)
	}
	s.log.Info().Str("op", "add").Str("label", label).Float64("sgpa", gp).Float64("credits", credits).Int("id", int(id)).Msg("semester added")
	return id, nil
}

// Add dispatches to AddSemester or AddFree by mode; credits is ignored in
// catalog mode.
func (s *Session) Add(label string, gp, credits float64) (grades.RecordID, error) {
	if s.IsCatalogMode() {
		return s.AddSemester(label, gp)
	}
	return s.AddFree(label, gp, credits)
}

// Edit replaces the numeric fields of record id. In catalog mode the credits
// stay pinned to the catalog value for the record's label.
func (s *Session) Edit(id grades.RecordID, gp, credits float64) error {
	rec, err := s.store.Get(id)
	if err != nil {
		return s.fail("edit", err)
	}
	if s.IsCatalogMode() {
		if c, ok := s.catalog.Credits(rec.Label); ok {
			credits = c
		}
	}
	if err := s.store.Update(id, gp, credits); err != nil {
		return s.fail("edit", err)
	}
	s.log.Info().Str("op", "edit").Int("id", int(id)).Float64("sgpa", gp).Float64("credits", credits).Msg("semester updated")
	return nil
}

func (s *Session) Remove(id grades.RecordID) (grades.SemesterRecord, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return grades.SemesterRecord{}, s.fail("remove", err)
	}
	if err := s.store.Remove(id); err != nil {
		return grades.SemesterRecord{}, s.fail("remove", err)
	}
	s.log.Info().Str("op", "remove").Int("id", int(id)).Str("label", rec.Label).Msg("semester removed")
	return rec, nil
}

func (s *Session) Clear() {
	n := s.store.Len()
	s.store.Clear()
	s.last = ""
	s.log.Info().Str("op", "clear").Int("removed", n).Msg("all semesters cleared")
}

func (s *Session) CGPA() float64 { return s.store.Aggregate() }

// Aggregate is CGPA under the name export.Source expects.
func (s *Session) Aggregate() float64 { return s.store.Aggregate() }

func (s *Session) Summary() grades.Summary { return s.store.Summary() }

func (s *Session) Records() []grades.SemesterRecord { return s.store.Records() }

func (s *Session) Len() int { return s.store.Len() }

// NextLabel suggests the catalog semester to enter next, or "" when every
// catalog semester is entered or the session is in free mode.
func (s *Session) NextLabel() string {
	if !s.IsCatalogMode() {
		return ""
	}
	return s.catalog.Next(s.last, s.store.Labels())
}

// Available lists the catalog semesters not yet entered.
func (s *Session) Available() []string {
	if !s.IsCatalogMode() {
		return nil
	}
	return s.catalog.Available(s.store.Labels())
}

// Complete reports whether every catalog semester has been entered.
func (s *Session) Complete() bool {
	return s.IsCatalogMode() && len(s.Available()) == 0
}

// Export writes a snapshot in format, or the session default when format is
// empty, and returns the file path.
func (s *Session) Export(format string) (string, error) {
	if format == "" {
		format = s.format
	}
	path, err := s.exporter.WriteFile(s.ID, format, s)
	if err != nil {
		return "", s.fail("export", err)
	}
	s.log.Info().Str("op", "export").Str("format", format).Str("path", path).Int("records", s.store.Len()).Msg("records exported")
	return path, nil
}

func (s *Session) fail(op string, err error) error {
	s.log.Warn().Str("op", op).Err(err).Msg("operation rejected")
	return err
}
