package headless

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
	"github.com/jeanpaul/cgpa/internal/session"
)

const helpText = `commands:
  add [label] <sgpa> [credits]   add a semester (credits required in free mode)
  edit <id> <sgpa> [credits]     change a semester's numbers
  rm <id>                        remove a semester
  clear                          remove every semester
  list                           show entered semesters
  cgpa                           show the cumulative average
  next                           show the next catalog semester
  catalog                        show the semester catalog
  export [csv|xlsx]              write a snapshot file
  quit                           leave`

// Run executes line commands from in against sess, writing results to out.
// Rejected commands print an error and the loop continues. Cancelling ctx
// returns immediately, even while waiting for the next line.
func Run(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, errc := scanLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			quit, err := Exec(sess, line, out)
			if err != nil {
				fmt.Fprintf(out, "error: %s\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// scanLines reads in on its own goroutine so a blocked read never holds up
// cancellation. errc receives exactly one value once lines is closed.
func scanLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// Exec runs a single command line. It reports whether the command asked to quit.
func Exec(sess *session.Session, line string, out io.Writer) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "add":
		return false, cmdAdd(sess, args, out)
	case "edit":
		return false, cmdEdit(sess, args, out)
	case "rm", "remove":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: rm <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		rec, err := sess.Remove(id)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "removed semester '%s' (ID %d)\n", rec.Label, id)
	case "clear":
		sess.Clear()
		fmt.Fprintln(out, "all semester data cleared")
	case "list", "ls":
		fmt.Fprintln(out, RenderRecords(sess.Records()))
	case "cgpa":
		fmt.Fprintln(out, FormatCGPA(sess))
	case "next":
		if next := sess.NextLabel(); next != "" {
			fmt.Fprintln(out, next)
		} else if sess.IsCatalogMode() {
			fmt.Fprintln(out, "all predefined semester types have been entered")
		} else {
			fmt.Fprintln(out, "free mode: any label")
		}
	case "catalog":
		for _, e := range sess.Catalog().Entries() {
			fmt.Fprintf(out, "%s\t%s\n", e.Label, export.FormatCredits(e.Credits))
		}
	case "export":
		format := ""
		if len(args) > 0 {
			format = args[0]
		}
		path, err := sess.Export(format)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "exported %d semesters to %s\n", sess.Len(), path)
	case "help", "?":
		fmt.Fprintln(out, helpText)
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func cmdAdd(sess *session.Session, args []string, out io.Writer) error {
	var (
		label       string
		gp, credits float64
		err         error
	)
	if sess.IsCatalogMode() {
		switch len(args) {
		case 1:
			label = sess.NextLabel()
			if label == "" {
				return fmt.Errorf("all predefined semester types have been entered")
			}
			gp, err = parseNumber("sgpa", args[0])
		case 2:
			label = args[0]
			gp, err = parseNumber("sgpa", args[1])
		default:
			return fmt.Errorf("usage: add [label] <sgpa>")
		}
	} else {
		if len(args) < 2 {
			return fmt.Errorf("usage: add [label] <sgpa> <credits>")
		}
		n := len(args)
		label = strings.Join(args[:n-2], " ")
		gp, err = parseNumber("sgpa", args[n-2])
		if err == nil {
			credits, err = parseNumber("credits", args[n-1])
		}
	}
	if err != nil {
		return err
	}

	id, err := sess.Add(label, gp, credits)
	if err != nil {
		return err
	}
	rec := sess.Records()[id]
	fmt.Fprintf(out, "semester added: #%d '%s', SGPA %s, credits %s\n",
		id, rec.Label, export.FormatGradePoint(rec.GradePoint), export.FormatCredits(rec.Credits))
	return nil
}

func cmdEdit(sess *session.Session, args []string, out io.Writer) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: edit <id> <sgpa> [credits]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	gp, err := parseNumber("sgpa", args[1])
	if err != nil {
		return err
	}

	var credits float64
	if len(args) == 3 {
		if credits, err = parseNumber("credits", args[2]); err != nil {
			return err
		}
	} else if !sess.IsCatalogMode() {
		return fmt.Errorf("usage: edit <id> <sgpa> <credits>")
	}

	if err := sess.Edit(id, gp, credits); err != nil {
		return err
	}
	rec := sess.Records()[id]
	fmt.Fprintf(out, "semester updated: #%d '%s', SGPA %s, credits %s\n",
		id, rec.Label, export.FormatGradePoint(rec.GradePoint), export.FormatCredits(rec.Credits))
	return nil
}

// FormatCGPA renders the aggregate line shown after every change.
func FormatCGPA(sess *session.Session) string {
	if sess.Len() == 0 {
		return "no semester data entered yet"
	}
	return fmt.Sprintf("Overall CGPA: %.2f", sess.CGPA())
}

// RenderRecords draws the entered semesters as a bordered table.
func RenderRecords(recs []grades.SemesterRecord) string {
	if len(recs) == 0 {
		return "no semester data entered yet"
	}
	t := table.New().Headers("ID", "Semester", "SGPA", "Credits")
	for i, r := range recs {
		row := export.Row(r)
		t.Row(strconv.Itoa(i), row[0], row[1], row[2])
	}
	return t.Render()
}

func parseID(s string) (grades.RecordID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &grades.ValidationError{Field: "id", Value: s, Reason: "must be a whole number"}
	}
	return grades.RecordID(n), nil
}

func parseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &grades.ValidationError{Field: field, Value: s, Reason: "must be a number"}
	}
	return v, nil
}
