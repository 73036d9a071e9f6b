// Command goclippings compiles a list of web article URLs into a single
// paginated PDF and optionally emails it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goclippings/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		urlsFile   string
		outputPath string
		configPath string
		llmBaseURL string
		llmModel   string
		llmKey     string
		withQuiz   bool
		mailTo     string
		userAgent  string
		timeout    time.Duration
		verbose    bool
	)

	flag.StringVar(&urlsFile, "urls", "", "Path to a file with one article URL per line (positional args also accepted)")
	flag.StringVar(&outputPath, "output", "", "Path to write the PDF (default clippings.pdf)")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for quiz generation")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name; empty disables the quiz")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the quiz model")
	flag.BoolVar(&withQuiz, "quiz", false, "Append a comprehension quiz to the document")
	flag.StringVar(&mailTo, "mail.to", "", "Email the document to this address instead of only writing it")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent for article fetches")
	flag.DurationVar(&timeout, "fetch.timeout", 0, "Per-request fetch timeout (default 15s)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		UserAgent:    userAgent,
		FetchTimeout: timeout,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		LLMAPIKey:    llmKey,
		OutputPath:   outputPath,
		Verbose:      verbose,
	}
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("read config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = app.DefaultOutputPath
	}
	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	urls, err := gatherURLs(urlsFile, flag.Args())
	if err != nil {
		log.Error().Err(err).Msg("read urls")
		os.Exit(1)
	}
	if len(urls) == 0 {
		log.Error().Msg("no URLs given; pass them as arguments or via -urls")
		os.Exit(1)
	}

	if err := run(cfg, urls, withQuiz, mailTo); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when nothing could be extracted, 1 otherwise.
		if errors.Is(err, app.ErrNoArticles) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config, urls []string, withQuiz bool, mailTo string) error {
	ctx := context.Background()
	a := app.New(cfg)

	var res *app.CompileResult
	var err error
	if mailTo != "" {
		res, err = a.CompileAndMail(ctx, urls, withQuiz, mailTo)
	} else {
		res, err = a.Compile(ctx, urls, withQuiz)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.OutputPath, res.PDF, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", cfg.OutputPath).Str("filename", res.Filename).Msg("wrote document")
	for _, u := range res.Skipped {
		log.Warn().Str("url", u).Msg("skipped")
	}
	return nil
}

// gatherURLs merges the -urls file (one URL per line, # comments allowed)
// with positional arguments, preserving order.
func gatherURLs(path string, args []string) ([]string, error) {
	var urls []string
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(b), "\n") {
			s := strings.TrimSpace(line)
			if s == "" || strings.HasPrefix(s, "#") {
				continue
			}
			urls = append(urls, s)
		}
	}
	urls = append(urls, args...)
	return urls, nil
}
