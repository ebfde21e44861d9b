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
	"github.com/fwojciec/keyterm"
	"github.com/fwojciec/keyterm/fs"
	"github.com/fwojciec/keyterm/jsoniter"
	ktslog "github.com/fwojciec/keyterm/slog"
	"github.com/fwojciec/keyterm/sqlite"
	"github.com/fwojciec/keyterm/store"
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
	// Index database path. Set before calling Run().
	DBPath string

	// Stdin is read by "put -".
	Stdin io.Reader

	// SQLite database used by the index.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Keyterms keyterm.KeytermService
	Index    keyterm.KeytermIndex
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("keyterm"),
		kong.Description("Store and inspect keyterm JSON documents in a document tree"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'keyterm --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	logger := newLogger(stderr, cli.Verbose)

	// Wire core services
	codec := jsoniter.NewCodec()
	var tree keyterm.DocumentTree = fs.NewTree(cli.Root, fs.WithLogger(logger))
	if cli.Verbose {
		tree = ktslog.NewLoggingDocumentTree(tree, logger)
	}
	svc := store.NewKeytermService(tree, codec)
	svc.Concurrency = cli.Concurrency

	m.Keyterms = svc
	if cli.Verbose {
		m.Keyterms = ktslog.NewLoggingKeytermService(svc, logger)
	}
	deps.Codec = codec
	deps.Keyterms = m.Keyterms

	// Only index commands need the database
	if cmd == "index" || cmd == "list" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set KEYTERM_DB to use a different index path\n")
			return fmt.Errorf("failed to open index at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.Index = sqlite.NewKeytermIndex(m.DB)
		deps.Index = m.Index
		deps.Indexer = &store.Indexer{
			Keyterms: m.Keyterms,
			Index:    m.Index,
			Codec:    codec,
		}
	}

	return kongCtx.Run(deps)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("KEYTERM_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "keyterm.db"
	}
	dir := filepath.Join(home, ".keyterm")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "keyterm.db")
}
