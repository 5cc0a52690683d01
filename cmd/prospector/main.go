package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/prospector"
	"github.com/fwojciec/prospector/fs"
	"github.com/fwojciec/prospector/gemini"
	"github.com/fwojciec/prospector/goquery"
	"github.com/fwojciec/prospector/htmltomarkdown"
	proshttp "github.com/fwojciec/prospector/http"
	"github.com/fwojciec/prospector/pipeline"
	"github.com/fwojciec/prospector/rod"
	proslog "github.com/fwojciec/prospector/slog"
	"github.com/fwojciec/prospector/sqlite"
	"github.com/fwojciec/prospector/trafilatura"
	"google.golang.org/genai"
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

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Run status store for end-to-end testing.
	Runs prospector.RunService

	renderer *rod.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.renderer != nil {
		_ = m.renderer.Close()
	}
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
		kong.Name("prospector"),
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
		return fmt.Errorf("no command specified. Run 'prospector --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	deps.Logger = logger

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PROSPECTOR_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Runs = sqlite.NewRunService(m.DB)
	deps.Runs = m.Runs

	// The run and serve commands execute the full pipeline and need the
	// Gemini API and a headless browser.
	if cmd == "run" || cmd == "serve" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		renderer, err := rod.NewRenderer(os.TempDir())
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.renderer = renderer

		var publicDir, baseURL, webhook string
		switch cmd {
		case "run":
			publicDir, baseURL, webhook = cli.Run.PublicDir, cli.Run.BaseURL, cli.Run.Webhook
		case "serve":
			publicDir, baseURL, webhook = cli.Serve.PublicDir, cli.Serve.BaseURL, cli.Serve.Webhook
		}

		embedder := gemini.NewEmbedder(client)
		deps.Pipeline = &pipeline.Pipeline{
			Sitemaps:  proslog.NewLoggingSitemapService(proshttp.NewSitemapService(nil), logger),
			Ranker:    proslog.NewLoggingRanker(gemini.NewRanker(client, logger), logger),
			Fetcher:   proshttp.NewFetcher(),
			Extractor: goquery.NewExtractor(),
			Fallback:  trafilatura.NewExtractor(),
			Converter: htmltomarkdown.NewConverter(),
			Index:     proslog.NewLoggingIndex(sqlite.NewIndex(m.DB, embedder), logger),
			Embedder:  embedder,
			Generator: gemini.NewGenerator(client),
			Runs:      m.Runs,
			Blobs:     fs.NewBlobStore(publicDir, baseURL),
			Renderer:  renderer,
			Notifier:  proshttp.NewNotifier(nil, webhook),
			Favicon:   goquery.FaviconURL,
			Limiter:   pipeline.NewDomainLimiter(pipeline.DefaultFetchRPS),
			Logger:    logger,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("PROSPECTOR_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "prospector.db"
	}
	dir := filepath.Join(home, ".prospector")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "prospector.db")
}
