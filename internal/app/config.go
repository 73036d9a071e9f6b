package app

import (
	"errors"
	"strings"
	"time"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Fetch
	UserAgent            string
	FetchTimeout         time.Duration
	FetchAttempts        int
	MaxConcurrentFetches int

	// Quiz LLM (optional; empty model disables quiz generation)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Noise phrases added on top of the built-in list.
	ExtraNoisePhrases []string

	// Mail (optional; empty host disables sending)
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Server
	ListenAddr string

	// CLI output
	OutputPath string
	Verbose    bool
}

// Defaults used when flags and config file leave a field unset.
const (
	DefaultUserAgent     = "goclippings/1.0 (+https://github.com/hyperifyio/goclippings)"
	DefaultFetchTimeout  = 15 * time.Second
	DefaultFetchAttempts = 2
	DefaultMaxConcurrent = 8
	DefaultListenAddr    = ":8080"
	DefaultOutputPath    = "clippings.pdf"
	DefaultSMTPPort      = 587
)

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.FetchAttempts <= 0 {
		c.FetchAttempts = DefaultFetchAttempts
	}
	if c.MaxConcurrentFetches <= 0 {
		c.MaxConcurrentFetches = DefaultMaxConcurrent
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = DefaultSMTPPort
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if cfg.FetchTimeout < 0 || cfg.FetchAttempts < 0 || cfg.MaxConcurrentFetches < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.SMTPHost != "" && strings.TrimSpace(cfg.MailFrom) == "" {
		return errors.New("config: mail.from is required when mail.host is set")
	}
	return nil
}
