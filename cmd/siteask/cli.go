package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/siteask"
	sqgin "github.com/fwojciec/siteask/gin"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   siteask.Config
	Cache    siteask.Cache
	Pipeline siteask.Pipeline
	Server   *sqgin.Server
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Answerer    string `default:"ollama" enum:"ollama,gemini" env:"SITEASK_ANSWERER" help:"Answer backend (ollama, gemini)"`
	OllamaURL   string `name:"ollama-url" default:"http://localhost:11434" env:"OLLAMA_URL" help:"Ollama server URL"`
	OllamaModel string `default:"deepseek-llm:7b-chat" env:"OLLAMA_MODEL" help:"Ollama model"`
	GeminiModel string `default:"gemini-2.5-flash" env:"GEMINI_MODEL" help:"Gemini model"`
	GeminiKey   string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`

	Extractor        string        `default:"selectors" enum:"selectors,trafilatura,readability" env:"SITEASK_EXTRACTOR" help:"Main-content extractor (selectors, trafilatura, readability)"`
	MaxLinks         int           `default:"8" env:"SITEASK_MAX_LINKS" help:"Links processed per question"`
	SearchRate       float64       `default:"0.5" env:"SITEASK_SEARCH_RATE" help:"Requests per second to each search engine and to the domain"`
	SitemapSeeds     bool          `env:"SITEASK_SITEMAP_SEEDS" help:"Add sitemap URLs to the crawl fallback"`
	ProbeContentType bool          `env:"SITEASK_PROBE_CONTENT_TYPE" help:"Classify links with a HEAD request instead of the URL suffix"`
	NoOCR            bool          `name:"no-ocr" env:"SITEASK_NO_OCR" help:"Never OCR scanned PDFs"`
	FetchTimeout     time.Duration `default:"30s" env:"SITEASK_FETCH_TIMEOUT" help:"Page navigation timeout"`
	DownloadTimeout  time.Duration `default:"30s" env:"SITEASK_DOWNLOAD_TIMEOUT" help:"Document download timeout"`
	MaxDownloadMB    int64         `name:"max-download-mb" default:"50" env:"SITEASK_MAX_DOWNLOAD_MB" help:"Largest document downloaded, in MiB"`
	CacheTTL         time.Duration `name:"cache-ttl" default:"1h" env:"SITEASK_CACHE_TTL" help:"How long answers are cached"`
	CacheSize        int           `default:"1000" env:"SITEASK_CACHE_SIZE" help:"Maximum cached answers"`

	LogFormat string `default:"text" enum:"text,json" env:"SITEASK_LOG_FORMAT" help:"Log format (text, json)"`
	LogLevel  string `default:"info" enum:"debug,info,warn,error" env:"SITEASK_LOG_LEVEL" help:"Log level"`

	Serve ServeCmd `cmd:"" help:"Serve the question-answering HTTP API"`
	Ask   AskCmd   `cmd:"" help:"Answer a single question and exit"`
}

// Config applies the flags to the default configuration.
func (c *CLI) Config() siteask.Config {
	cfg := siteask.DefaultConfig()
	if c.MaxLinks > 0 {
		cfg.MaxLinks = c.MaxLinks
	}
	if c.FetchTimeout > 0 {
		cfg.FetchTimeout = c.FetchTimeout
	}
	if c.DownloadTimeout > 0 {
		cfg.DownloadTimeout = c.DownloadTimeout
	}
	if c.MaxDownloadMB > 0 {
		cfg.MaxDownloadBytes = c.MaxDownloadMB << 20
	}
	if c.CacheTTL > 0 {
		cfg.CacheTTL = c.CacheTTL
	}
	return cfg
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string   `default:":3000" env:"SITEASK_ADDR" help:"Listen address"`
	AllowOrigin []string `name:"allow-origin" env:"SITEASK_ALLOW_ORIGINS" help:"Allowed CORS origin (repeatable); all origins when unset"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to answer"`
	JSON     bool   `help:"Print the full response as JSON"`
	Verbose  bool   `short:"v" help:"Print pipeline progress to stderr"`
}
