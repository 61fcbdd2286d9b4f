package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteask"
	"github.com/fwojciec/siteask/document"
	"github.com/fwojciec/siteask/exec"
	"github.com/fwojciec/siteask/gemini"
	sqgin "github.com/fwojciec/siteask/gin"
	"github.com/fwojciec/siteask/goquery"
	siteaskhttp "github.com/fwojciec/siteask/http"
	"github.com/fwojciec/siteask/lru"
	"github.com/fwojciec/siteask/ollama"
	"github.com/fwojciec/siteask/pdf"
	"github.com/fwojciec/siteask/pipeline"
	"github.com/fwojciec/siteask/poppler"
	"github.com/fwojciec/siteask/readability"
	"github.com/fwojciec/siteask/retrieve"
	"github.com/fwojciec/siteask/rod"
	"github.com/fwojciec/siteask/search"
	sqslog "github.com/fwojciec/siteask/slog"
	"github.com/fwojciec/siteask/tesseract"
	"github.com/fwojciec/siteask/trafilatura"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if closeErr := m.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Collaborators for end-to-end testing. When nil the real
	// implementations are built from the flags.
	Browser  siteask.Browser
	Backends []siteask.SearchBackend
	Answerer siteask.Answerer

	closers []func() error
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases everything Run started, such as the browser.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteask"),
		kong.Description("Answer questions about an organization using only its own website."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteask --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(stderr, cli.LogFormat, cli.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	deps.Logger = logger
	deps.Config = cli.Config()

	cache := lru.NewCache(cli.CacheSize, deps.Config.CacheTTL)
	p, err := m.pipeline(ctx, cli, deps.Config, cache, logger, stderr)
	if err != nil {
		return err
	}
	deps.Cache = cache

	command := kongCtx.Command()
	switch {
	case strings.HasPrefix(command, "serve"):
		gin.SetMode(gin.ReleaseMode)
		deps.Pipeline = sqslog.NewLoggingPipeline(p, logger)
		deps.Server = sqgin.NewServer(deps.Config, deps.Pipeline, cache)
		deps.Server.Addr = cli.Serve.Addr
		deps.Server.AllowOrigins = cli.Serve.AllowOrigin
		deps.Server.Logger = logger
	case strings.HasPrefix(command, "ask"):
		if cli.Ask.Verbose {
			p.Progress = printProgress(stderr)
		}
		deps.Pipeline = p
	}

	return kongCtx.Run(deps)
}

// pipeline wires the retrieval, extraction and answer services.
func (m *Main) pipeline(ctx context.Context, cli *CLI, cfg siteask.Config, cache siteask.Cache, logger *slog.Logger, stderr io.Writer) (*pipeline.Pipeline, error) {
	answerer := m.Answerer
	if answerer == nil {
		a, err := newAnswerer(ctx, cli, stderr)
		if err != nil {
			return nil, err
		}
		answerer = a
	}

	browser := m.Browser
	if browser == nil {
		b, err := rod.NewBrowser(rod.WithFetchTimeout(cfg.FetchTimeout))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, b.Close)
		browser = b
	}

	backends := m.Backends
	if backends == nil {
		backends = []siteask.SearchBackend{search.NewGoogle(), search.NewDuckDuckGo()}
	}
	logged := make([]siteask.SearchBackend, len(backends))
	for i, b := range backends {
		logged[i] = sqslog.NewLoggingSearchBackend(b, logger)
	}

	client := &http.Client{Timeout: cfg.FetchTimeout}
	retriever := &retrieve.Retriever{
		Domain:    cfg.Domain,
		Backends:  logged,
		Harvester: goquery.NewLinkHarvester(),
		SeedPaths: cfg.SeedPaths,
		Limiter:   retrieve.NewDomainLimiter(cli.SearchRate),
		MaxLinks:  cfg.MaxLinks,
		Logger:    logger,
	}
	if cli.SitemapSeeds {
		retriever.Sitemaps = sqslog.NewLoggingSitemapService(siteaskhttp.NewSitemapService(client), logger)
	}

	downloader := siteaskhttp.NewDownloader(
		siteaskhttp.WithTimeout(cfg.DownloadTimeout),
		siteaskhttp.WithMaxBytes(cfg.MaxDownloadBytes),
	)
	docs := document.NewProcessor(cfg, downloader, pdf.NewTextExtractor())
	docs.Logger = logger
	if !cli.NoOCR {
		if err := exec.CheckAvailable(poppler.DefaultBinary, tesseract.DefaultBinary); err != nil {
			logger.Warn("OCR disabled", "err", siteask.ErrorMessage(err))
		} else {
			runner := &exec.CommandRunner{}
			docs.Rasterizer = poppler.NewRasterizer(runner)
			docs.Recognizer = tesseract.NewRecognizer(runner)
		}
	}

	p := &pipeline.Pipeline{
		Config:    cfg,
		Cache:     cache,
		Browser:   rod.NewLoggingBrowser(browser, logger),
		Retriever: sqslog.NewLoggingRetriever(retriever, logger),
		Extractor: newExtractor(cli.Extractor, cfg.MaxContentLength),
		Documents: sqslog.NewLoggingDocumentProcessor(docs, logger),
		Answerer:  sqslog.NewLoggingAnswerer(answerer, logger),
		Logger:    logger,
	}
	if cli.ProbeContentType {
		p.Classifier = siteaskhttp.NewClassifier(client, cfg.FetchTimeout)
	}
	return p, nil
}

func newAnswerer(ctx context.Context, cli *CLI, stderr io.Writer) (siteask.Answerer, error) {
	if cli.Answerer != "gemini" {
		return ollama.NewAnswerer(cli.OllamaURL, cli.OllamaModel), nil
	}

	if cli.GeminiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cli.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	a := gemini.NewAnswerer(client, cli.GeminiModel)
	if tokens, err := gemini.NewTokenCounter(""); err == nil {
		a.Tokens = tokens
	}
	return a, nil
}

func newExtractor(name string, maxContentLength int) siteask.Extractor {
	switch name {
	case "trafilatura":
		return trafilatura.NewExtractor(maxContentLength)
	case "readability":
		return readability.NewExtractor(maxContentLength)
	default:
		return goquery.NewExtractor(maxContentLength)
	}
}

// printProgress writes one line per pipeline stage.
func printProgress(w io.Writer) pipeline.ProgressFunc {
	return func(e pipeline.ProgressEvent) {
		switch {
		case e.URL == "":
			fmt.Fprintf(w, "> %s\n", e.Stage)
		case e.Err != nil:
			fmt.Fprintf(w, "  skip %s: %s\n", e.URL, siteask.ErrorMessage(e.Err))
		default:
			fmt.Fprintf(w, "  ok   %s\n", e.URL)
		}
	}
}
