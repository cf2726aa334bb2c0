package tui

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from.
type Palette struct {
	Accent    lipgloss.Color
	Bright    lipgloss.Color
	Medium    lipgloss.Color
	Dark      lipgloss.Color
	Dim       lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Black     lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	GlamStyle string
}

var Themes = map[string]Palette{
	"green": {
		Accent:    lipgloss.Color("#00FF41"),
		Bright:    lipgloss.Color("#39FF14"),
		Medium:    lipgloss.Color("#00C832"),
		Dark:      lipgloss.Color("#008F11"),
		Dim:       lipgloss.Color("#003B00"),
		Text:      lipgloss.Color("#e0e0e0"),
		Muted:     lipgloss.Color("#aaaaaa"),
		Black:     lipgloss.Color("#0D0208"),
		Error:     lipgloss.Color("#FF4136"),
		Warning:   lipgloss.Color("#FFD700"),
		GlamStyle: "dark",
	},
	"amber": {
		Accent:    lipgloss.Color("#FFB000"),
		Bright:    lipgloss.Color("#FFCC00"),
		Medium:    lipgloss.Color("#E09000"),
		Dark:      lipgloss.Color("#A06000"),
		Dim:       lipgloss.Color("#503000"),
		Text:      lipgloss.Color("#f0e0c0"),
		Muted:     lipgloss.Color("#b0a080"),
		Black:     lipgloss.Color("#100800"),
		Error:     lipgloss.Color("#FF4136"),
		Warning:   lipgloss.Color("#FFFFFF"),
		GlamStyle: "dark",
	},
	"light": {
		Accent:    lipgloss.Color("#006400"),
		Bright:    lipgloss.Color("#008000"),
		Medium:    lipgloss.Color("#2E8B57"),
		Dark:      lipgloss.Color("#556B2F"),
		Dim:       lipgloss.Color("#8FBC8F"),
		Text:      lipgloss.Color("#1a1a1a"),
		Muted:     lipgloss.Color("#555555"),
		Black:     lipgloss.Color("#FFFFFF"),
		Error:     lipgloss.Color("#B22222"),
		Warning:   lipgloss.Color("#B8860B"),
		GlamStyle: "light",
	},
}

// PaletteFor returns the named palette, falling back to green.
func PaletteFor(name string) Palette {
	if p, ok := Themes[name]; ok {
		return p
	}
	return Themes["green"]
}

// Styles holds every lipgloss style the interface renders with.
type Styles struct {
	Palette Palette

	Banner      lipgloss.Style
	StatusBar   lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Help        lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Confirm     lipgloss.Style
	Info        lipgloss.Style
	CGPA        lipgloss.Style
	InputBorder lipgloss.Style
	InputActive lipgloss.Style
	Box         lipgloss.Style
}

func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,
		Banner: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Background(p.Dark).
			Foreground(p.Black).
			Bold(true).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(p.Bright).
			Bold(true),
		Value: lipgloss.NewStyle().
			Foreground(p.Text),
		Help: lipgloss.NewStyle().
			Foreground(p.Dim),
		Success: lipgloss.NewStyle().
			Foreground(p.Medium).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		Confirm: lipgloss.NewStyle().
			Foreground(p.Warning).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		CGPA: lipgloss.NewStyle().
			Foreground(p.Bright).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent),
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Dark).
			Padding(0, 1),
		InputActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Dark).
			Padding(0, 1),
	}
}

// DefaultStyles are used by the command line outside the interactive form.
var DefaultStyles = NewStyles(Themes["green"])
