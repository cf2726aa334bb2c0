package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/cgpa/internal/grades"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	SheetName  = "Semesters"
	filePrefix = "cgpa-"
)

var Header = []string{"Semester", "SGPA", "Credits"}

// Source is anything holding semester records and their aggregate.
type Source interface {
	Records() []grades.SemesterRecord
	Aggregate() float64
}

// FormatGradePoint renders a grade point the way every export does.
func FormatGradePoint(gp float64) string { return strconv.FormatFloat(gp, 'f', 2, 64) }

// FormatCredits renders credits the way every export does.
func FormatCredits(c float64) string { return strconv.FormatFloat(c, 'f', 1, 64) }

// Row returns the delimited-text columns for r.
func Row(r grades.SemesterRecord) []string {
	return []string{r.Label, FormatGradePoint(r.GradePoint), FormatCredits(r.Credits)}
}

// WriteCSV writes a header and one row per record.
func WriteCSV(w io.Writer, src Source) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range src.Records() {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the records to a single-sheet workbook followed by a CGPA row.
func WriteXLSX(w io.Writer, src Source) error {
	f, err := buildWorkbook(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildWorkbook(src Source) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}

	gpFmt, crFmt := "0.00", "0.0"
	gpStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &gpFmt})
	if err != nil {
		f.Close()
		return nil, err
	}
	crStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &crFmt})
	if err != nil {
		f.Close()
		return nil, err
	}

	recs := src.Records()
	for i, r := range recs {
		row := []any{r.Label, r.GradePoint, r.Credits}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	last := len(recs) + 1
	if len(recs) > 0 {
		if err := f.SetCellStyle(SheetName, "B2", fmt.Sprintf("B%d", last), gpStyle); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, "C2", fmt.Sprintf("C%d", last), crStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	total := []any{"CGPA", src.Aggregate()}
	cell := fmt.Sprintf("B%d", last+1)
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", last+1), &total); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, cell, cell, gpStyle); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Exporter writes snapshots of a session into Dir.
type Exporter struct {
	Dir string
	Now func() time.Time
}

func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir, Now: time.Now}
}

// FileName builds the snapshot name for a session and format.
func (e *Exporter) FileName(sessionID, format string) string {
	return e.fileName(sessionID, strings.ToLower(format), 1)
}

// fileName appends -n for every attempt after the first.
func (e *Exporter) fileName(sessionID, format string, n int) string {
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	stamp := e.Now().Format("20060102-150405")
	if n > 1 {
		stamp = fmt.Sprintf("%s-%d", stamp, n)
	}
	return fmt.Sprintf("%s%s-%s.%s", filePrefix, short, stamp, format)
}

// maxNameAttempts bounds the suffixes tried for exports within one second.
const maxNameAttempts = 100

// WriteFile writes src in the given format and returns the path written.
// An existing snapshot is never overwritten.
func (e *Exporter) WriteFile(sessionID, format string, src Source) (string, error) {
	format = strings.ToLower(format)
	write, err := writerFor(format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, path, err := e.create(sessionID, format)
	if err != nil {
		return "", err
	}
	if err := write(f, src); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s export: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Exporter) create(sessionID, format string) (*os.File, string, error) {
	for n := 1; n <= maxNameAttempts; n++ {
		path := filepath.Join(e.Dir, e.fileName(sessionID, format, n))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("failed to create export file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("failed to create export file: too many exports this second")
}

func writerFor(format string) (func(io.Writer, Source) error, error) {
	switch format {
	case FormatCSV:
		return WriteCSV, nil
	case FormatXLSX:
		return WriteXLSX, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (must be csv or xlsx)", format)
	}
}

// List returns every export under dir, sorted by path.
func List(dir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/"+filePrefix+"*.{csv,xlsx}")
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	sort.Strings(out)
	return out, nil
}
