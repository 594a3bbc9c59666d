package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/visreg/compare"
	"github.com/fwojciec/visreg/fs"
	vrhtml "github.com/fwojciec/visreg/html"
	vrhttp "github.com/fwojciec/visreg/http"
	"github.com/fwojciec/visreg/rod"
	vrslog "github.com/fwojciec/visreg/slog"
	"github.com/fwojciec/visreg/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the run history service.
	DB *sqlite.DB

	// Capture pipeline override for end-to-end testing. When nil, Run
	// wires the browser-backed pipeline for the run command.
	Runner *compare.Runner
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("visreg"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'visreg --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The selected subcommand. Global flags may precede it, so args[0]
	// is not a reliable source.
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set VISREG_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Runs = sqlite.NewRunService(m.DB)

	// Wire the capture pipeline only for the run command; it launches a
	// browser and creates the report directory.
	if cmd == "run" && m.Runner != nil {
		deps.Runner = m.Runner
	} else if cmd == "run" {
		layout, err := fs.NewLayout(cli.Run.ReportDir)
		if err != nil {
			return fmt.Errorf("failed to create report directory %q: %w", cli.Run.ReportDir, err)
		}

		logFile, err := layout.OpenLog()
		if err != nil {
			return fmt.Errorf("failed to open run log: %w", err)
		}
		defer logFile.Close()

		// Every log line goes both to the terminal and to logs.txt
		// alongside the report.
		logger := slog.New(slog.NewTextHandler(io.MultiWriter(stderr, logFile), nil))

		capturer, err := rod.NewCapturer(
			rod.WithHeadless(cli.Run.Headless),
			rod.WithSettleDelay(cli.Run.Settle),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer capturer.Close()

		deps.Runner = &compare.Runner{
			Sitemaps:    vrslog.NewLoggingSitemapService(vrhttp.NewSitemapService(nil), logger),
			Capturer:    vrslog.NewLoggingCapturer(capturer, logger),
			Images:      layout,
			Report:      vrhtml.NewWriter(layout.Root()),
			Runs:        deps.Runs,
			Limiter:     compare.NewDomainLimiter(cli.Run.Rate),
			Logger:      logger,
			RetryDelays: compare.RetryDelays(cli.Run.Retries),
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("VISREG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "visreg.db"
	}
	dir := filepath.Join(home, ".visreg")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "visreg.db")
}
