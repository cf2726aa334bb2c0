package tui

import (
	"fmt"
	"strings"

	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
)

// formatSummary renders the aggregate panel shown under the record table.
func formatSummary(sum grades.Summary, st Styles) string {
	if sum.Count == 0 {
		return st.Info.Render("No semester data entered yet. Please add semester details above.")
	}

	var b strings.Builder
	b.WriteString(st.CGPA.Render(fmt.Sprintf("Overall CGPA: %.2f", sum.CGPA)))
	b.WriteString("\n")
	b.WriteString(st.Help.Render(fmt.Sprintf("  %s %s / %.0f",
		makeBar(sum.CGPA/grades.MaxGradePoint, 20), export.FormatGradePoint(sum.CGPA), grades.MaxGradePoint)))
	b.WriteString("\n")
	b.WriteString(st.Help.Render(fmt.Sprintf("  %d semesters · %s credits · %s weighted points",
		sum.Count, export.FormatCredits(sum.TotalCredits), export.FormatGradePoint(sum.WeightedPoints))))
	return b.String()
}

func makeBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
