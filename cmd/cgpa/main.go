package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeanpaul/cgpa/internal/config"
	"github.com/jeanpaul/cgpa/internal/export"
	"github.com/jeanpaul/cgpa/internal/grades"
	"github.com/jeanpaul/cgpa/internal/headless"
	"github.com/jeanpaul/cgpa/internal/logging"
	"github.com/jeanpaul/cgpa/internal/schema"
	"github.com/jeanpaul/cgpa/internal/session"
	"github.com/jeanpaul/cgpa/internal/tui"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var st = tui.DefaultStyles

func main() {
	configFlag := flag.String("config", "", "Path to a config file")
	modeFlag := flag.String("mode", "", "Entry mode: catalog or free")
	exportDirFlag := flag.String("export-dir", "", "Directory for exported files")
	formatFlag := flag.String("format", "", "Export format: csv or xlsx")
	catalogFlag := flag.String("catalog", "", "Path to a YAML semester catalog")
	headlessFlag := flag.Bool("headless", false, "Read commands from stdin instead of starting the form")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("cgpa %s (%s)\n", version, commit)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal("config error: %s", err)
	}
	if *modeFlag != "" {
		cfg.Mode = *modeFlag
	}
	if *exportDirFlag != "" {
		cfg.Export.Dir = *exportDirFlag
	}
	if *formatFlag != "" {
		cfg.Export.Format = *formatFlag
	}
	if *catalogFlag != "" {
		cfg.CatalogFile = *catalogFlag
	}
	if err := cfg.Validate(); err != nil {
		fatal("%s", err)
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "catalog":
			cmdCatalog(cfg, args[1:])
			return
		case "exports":
			cmdExports(cfg)
			return
		case "version":
			fmt.Printf("cgpa %s (%s)\n", version, commit)
			return
		case "help":
			showHelp()
			return
		default:
			fatal("unknown command %q (run 'cgpa help')", args[0])
		}
	}

	log, closer, err := logging.New(cfg.Logging())
	if err != nil {
		fatal("%s", err)
	}
	defer closer.Close()

	sess, err := newSession(cfg, log)
	if err != nil {
		closer.Close()
		fatal("%s", err)
	}
	log.Info().Str("session", sess.ID).Str("mode", cfg.Mode).Bool("headless", *headlessFlag).Msg("session started")

	if *headlessFlag || !isTerminal() {
		err = launchHeadless(sess)
	} else {
		err = launchTUI(sess, cfg.Theme)
	}
	log.Info().Str("session", sess.ID).Int("records", sess.Len()).Msg("session ended")
	if err != nil {
		closer.Close()
		fatal("%s", err)
	}
}

func newSession(cfg *config.Config, log zerolog.Logger) (*session.Session, error) {
	cat, err := config.LoadCatalog(cfg, schema.NewValidator())
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Mode:     cfg.Mode,
		Catalog:  cat,
		Exporter: export.NewExporter(cfg.Export.Dir),
		Format:   cfg.Export.Format,
		Logger:   log,
	}), nil
}

// launchTUI starts the interactive form
func launchTUI(sess *session.Session, theme string) error {
	p := tea.NewProgram(tui.NewModel(sess, theme), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func launchHeadless(sess *session.Session) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := headless.Run(ctx, sess, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func cmdCatalog(cfg *config.Config, args []string) {
	if len(args) == 2 && args[0] == "init" {
		if err := config.WriteCatalogFile(args[1], mustCatalog(cfg)); err != nil {
			fatal("failed to write catalog: %s", err)
		}
		fmt.Printf("  %s %s\n", st.Success.Render("✓ Catalog written to"), args[1])
		return
	}
	if len(args) != 0 {
		fatal("usage: cgpa catalog [init <path>]")
	}

	fmt.Println(st.Banner.Render("  Semester Catalog"))
	fmt.Println()
	for _, e := range mustCatalog(cfg).Entries() {
		fmt.Printf("  %s  %s\n", st.Label.Render(fmt.Sprintf("%-10s", e.Label)), st.Value.Render(export.FormatCredits(e.Credits)+" credits"))
	}
}

func mustCatalog(cfg *config.Config) *grades.Catalog {
	cat, err := config.LoadCatalog(cfg, schema.NewValidator())
	if err != nil {
		fatal("%s", err)
	}
	return cat
}

func cmdExports(cfg *config.Config) {
	files, err := export.List(cfg.Export.Dir)
	if err != nil {
		fatal("failed to list exports: %s", err)
	}
	if len(files) == 0 {
		fmt.Println(st.Help.Render("  No exports in " + cfg.Export.Dir))
		return
	}
	fmt.Println(st.Banner.Render("  Exports"))
	fmt.Println()
	for _, f := range files {
		fmt.Println("  " + st.Value.Render(f))
	}
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, st.Error.Render("error: "+msg))
	os.Exit(1)
}

func showHelp() {
	help := `
` + st.Banner.Render("cgpa") + ` - cumulative grade point calculator for your terminal

` + st.Label.Render("USAGE:") + `
  cgpa [flags]                Start the interactive form
  cgpa <command> [args]       Run a command

` + st.Label.Render("COMMANDS:") + `
  catalog                     List the semester catalog and its credits
  catalog init <path>         Write the active catalog to a YAML file
  exports                     List files written by earlier exports
  version                     Show version
  help                        Show this help

` + st.Label.Render("FLAGS:") + `
  --mode <catalog|free>       Credits from the catalog, or typed per semester
  --catalog <path>            Use a YAML semester catalog
  --export-dir <dir>          Where exports are written
  --format <csv|xlsx>         Default export format
  --config <path>             Use a specific config file
  --headless                  Read commands from stdin (see 'help' inside)
  --version                   Show version
  --help, -h                  Show this help

` + st.Label.Render("EXAMPLES:") + `
  cgpa                        Start with the built-in catalog
  cgpa --mode free            Enter any semester with its own credits
  echo "add 8.5" | cgpa       Script a session

` + st.Help.Render("Config: ~/.config/cgpa/config.yaml (env overrides: CGPA_MODE, CGPA_EXPORT_DIR, ...)") + `
`
	fmt.Println(help)
}
