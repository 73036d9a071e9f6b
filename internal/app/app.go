// Package app wires the fetch, collection, quiz and composition subsystems
// into the compile operation shared by the CLI and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goclippings/internal/article"
	"github.com/hyperifyio/goclippings/internal/collect"
	"github.com/hyperifyio/goclippings/internal/compose"
	"github.com/hyperifyio/goclippings/internal/fetch"
	"github.com/hyperifyio/goclippings/internal/llm"
	"github.com/hyperifyio/goclippings/internal/mail"
	"github.com/hyperifyio/goclippings/internal/noise"
	"github.com/hyperifyio/goclippings/internal/quiz"
)

// ErrNoArticles is returned when a compile request ends with zero usable
// articles: either the URL list was empty or every URL failed extraction.
// It is terminal and distinguishable from "document produced with skips".
var ErrNoArticles = errors.New("no articles could be extracted")

// App owns the long-lived collaborators. Fields are exported so tests can
// substitute fakes; production code goes through New.
type App struct {
	Collector *collect.Collector
	Composer  *compose.Composer
	Quiz      *quiz.Generator
	Mailer    mail.Sender

	cfg Config
	now func() time.Time
}

// New builds an App from configuration. Quiz generation is enabled only when
// an LLM model is configured; mail only when an SMTP host is configured.
func New(cfg Config) *App {
	cfg.applyDefaults()

	client := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.FetchAttempts,
		PerRequestTimeout: cfg.FetchTimeout,
		MaxConcurrent:     cfg.MaxConcurrentFetches,
	}
	cls := noise.NewClassifier(cfg.ExtraNoisePhrases...)

	a := &App{
		Collector: &collect.Collector{
			Pipeline:      &article.Pipeline{Client: client, Noise: cls},
			MaxConcurrent: cfg.MaxConcurrentFetches,
		},
		Composer: compose.New(client),
		cfg:      cfg,
		now:      time.Now,
	}
	if cfg.LLMModel != "" {
		a.Quiz = &quiz.Generator{
			Client: llm.NewOpenAIProvider(cfg.LLMAPIKey, cfg.LLMBaseURL),
			Model:  cfg.LLMModel,
		}
	}
	if cfg.SMTPHost != "" {
		a.Mailer = &mail.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		}
	}
	return a
}

// CompileResult is a finished document plus its out-of-band skip list.
type CompileResult struct {
	PDF      []byte
	Filename string
	Skipped  []string
}

// Compile turns a URL list into a single paginated PDF. Per-URL failures go
// on the skip list; a batch that yields zero articles fails with
// ErrNoArticles before composition is attempted.
func (a *App) Compile(ctx context.Context, urls []string, withQuiz bool) (*CompileResult, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: empty url list", ErrNoArticles)
	}

	res := a.Collector.Collect(ctx, urls)
	if len(res.Articles) == 0 {
		return nil, fmt.Errorf("%w: all %d urls skipped", ErrNoArticles, len(res.Skipped))
	}

	var sections []quiz.Section
	if withQuiz && a.Quiz != nil {
		sections = a.Quiz.Generate(ctx, res.Articles)
	}

	pdf, err := a.Composer.Compose(ctx, res.Articles, sections)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("articles", len(res.Articles)).
		Int("skipped", len(res.Skipped)).
		Int("bytes", len(pdf)).
		Msg("document composed")

	now := a.now
	if now == nil {
		now = time.Now
	}
	return &CompileResult{
		PDF:      pdf,
		Filename: Filename(now()),
		Skipped:  res.Skipped,
	}, nil
}

// CompileAndMail compiles and sends the document as an attachment.
func (a *App) CompileAndMail(ctx context.Context, urls []string, withQuiz bool, to string) (*CompileResult, error) {
	res, err := a.Compile(ctx, urls, withQuiz)
	if err != nil {
		return nil, err
	}
	if a.Mailer == nil {
		return nil, errors.New("mail transport not configured")
	}
	msg := mail.Message{
		From:    a.cfg.MailFrom,
		To:      to,
		Subject: "Your clippings",
		Text:    fmt.Sprintf("Attached: %s (%d article(s), %d skipped).", res.Filename, countArticles(urls, res), len(res.Skipped)),
		Attachment: &mail.Attachment{
			Filename: res.Filename,
			Content:  res.PDF,
		},
	}
	if err := a.Mailer.Send(msg); err != nil {
		return nil, err
	}
	log.Info().Str("to", to).Str("filename", res.Filename).Msg("clippings mailed")
	return res, nil
}

// Filename derives the attachment/download name for a compile date.
func Filename(t time.Time) string {
	return "Clippings-" + t.Format("2006-01-02") + ".pdf"
}

func countArticles(urls []string, res *CompileResult) int {
	return len(urls) - len(res.Skipped)
}
