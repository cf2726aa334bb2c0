package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# CGPA Calculator

Enter the **SGPA** earned in each semester. Every semester is weighted by its
credits; the overall CGPA is

    sum(SGPA × credits) / sum(credits)

## Modes

- **catalog**: pick a semester from the catalog (` + "`ctrl+o`" + `). Its credits are fixed.
- **free**: type any label and the credits yourself.

## Keys

| Key | Action |
| --- | --- |
| enter | add the semester, or apply an edit |
| tab / shift+tab | move between fields and the table |
| ctrl+o | choose a catalog semester |
| ctrl+e | edit the selected row |
| ctrl+d | remove the selected row |
| ctrl+l | clear every semester |
| ctrl+s | export to a file |
| esc | cancel an edit, or quit |
| f1 | toggle this help |

SGPA must be between 0 and 10; credits must be greater than 0.
`

// renderHelp formats the help page for the given glamour style, falling back
// to the raw markdown when rendering fails.
func renderHelp(style string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
