package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/receiptflow/receipt-flow/internal/extraction"
	"github.com/receiptflow/receipt-flow/internal/inventory"
	"github.com/receiptflow/receipt-flow/internal/lookup"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// API keys commonly live in a .env file during development
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	fs := ff.NewFlagSet("receipt-flow")
	var (
		port            = fs.IntLong("port", 8080, "HTTP server port")
		geminiKey       = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel     = fs.StringLong("gemini-model", "gemini-2.0-flash", "Google Gemini model name")
		perplexityKey   = fs.StringLong("perplexity-key", "", "Perplexity API key (or set PERPLEXITY_API_KEY env var)")
		perplexityModel = fs.StringLong("perplexity-model", "sonar-pro", "Perplexity model name")
		priceCache      = fs.StringLong("price-cache", "", "Path to a bbolt price cache database (empty disables caching)")
		showVersion     = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_FLOW"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// A missing key degrades the corresponding adapter rather than
	// preventing startup: extraction falls back to mock data, lookup to its
	// error path
	var extractor extraction.Extractor
	apiKey := *geminiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey != "" {
		slog.Info("Initializing Gemini extractor...", "model", *geminiModel)
		gemini, err := extraction.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		extractor = &extraction.Fallback{Primary: gemini, Standby: extraction.NewMock()}
	} else {
		slog.Warn("GEMINI_API_KEY not set, using mock extraction")
		extractor = extraction.NewMock()
	}
	defer extractor.Close()

	var looker lookup.Looker
	lookupKey := *perplexityKey
	if lookupKey == "" {
		lookupKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if lookupKey != "" {
		slog.Info("Initializing Perplexity price lookup...", "model", *perplexityModel)
		perplexity, err := lookup.NewPerplexity(lookupKey, *perplexityModel)
		if err != nil {
			slog.Error("Failed to initialize Perplexity", "error", err)
			os.Exit(1)
		}
		looker = perplexity
	} else {
		slog.Warn("PERPLEXITY_API_KEY not set, online prices will be assumed from receipt prices")
		looker = lookup.Disabled{}
	}

	if *priceCache != "" {
		slog.Info("Enabling price cache", "path", *priceCache)
		cache, err := lookup.NewBoltCache(*priceCache, looker)
		if err != nil {
			slog.Error("Failed to open price cache", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		looker = cache
	}

	session := inventory.NewSession(inventory.NewService(extractor, looker))
	server := inventory.NewServer(session)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
