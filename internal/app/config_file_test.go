package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
userAgent: "custom-agent/2.0"
fetch:
  attempts: 5
  maxConcurrent: 3
llm:
  model: gpt-4o-mini
noise:
  phrases:
    - "sponsored content"
mail:
  host: smtp.x.test
  port: 2525
  from: clips@x.test
listen: ":9090"
`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.UserAgent != "custom-agent/2.0" || fc.Fetch.Attempts != 5 || fc.Fetch.MaxConcurrent != 3 {
		t.Fatalf("unexpected fetch config %#v", fc)
	}
	if fc.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected llm config %#v", fc.LLM)
	}
	if len(fc.Noise.Phrases) != 1 || fc.Noise.Phrases[0] != "sponsored content" {
		t.Fatalf("unexpected noise phrases %#v", fc.Noise.Phrases)
	}
	if fc.Mail.Host != "smtp.x.test" || fc.Mail.Port != 2525 || fc.Mail.From != "clips@x.test" {
		t.Fatalf("unexpected mail config %#v", fc.Mail)
	}
	if fc.Listen != ":9090" {
		t.Fatalf("unexpected listen %q", fc.Listen)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	path := writeTemp(t, "config.json", `{"userAgent":"json-agent","fetch":{"attempts":2}}`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.UserAgent != "json-agent" || fc.Fetch.Attempts != 2 {
		t.Fatalf("unexpected config %#v", fc)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	cfg := Config{
		UserAgent:     "from-flag",
		FetchAttempts: 9,
	}
	var fc FileConfig
	fc.UserAgent = "from-file"
	fc.Fetch.Attempts = 1
	fc.Fetch.MaxConcurrent = 6
	fc.Mail.From = "clips@x.test"

	ApplyFileConfig(&cfg, fc)

	if cfg.UserAgent != "from-flag" {
		t.Fatalf("flag value overwritten: %q", cfg.UserAgent)
	}
	if cfg.FetchAttempts != 9 {
		t.Fatalf("flag value overwritten: %d", cfg.FetchAttempts)
	}
	if cfg.MaxConcurrentFetches != 6 {
		t.Fatalf("file value not applied to unset field: %d", cfg.MaxConcurrentFetches)
	}
	if cfg.MailFrom != "clips@x.test" {
		t.Fatalf("file value not applied: %q", cfg.MailFrom)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	if cfg.UserAgent != DefaultUserAgent {
		t.Fatalf("unexpected user agent %q", cfg.UserAgent)
	}
	if cfg.FetchTimeout != DefaultFetchTimeout || cfg.FetchAttempts != DefaultFetchAttempts {
		t.Fatalf("unexpected fetch defaults %v/%d", cfg.FetchTimeout, cfg.FetchAttempts)
	}
	if cfg.SMTPPort != DefaultSMTPPort {
		t.Fatalf("unexpected smtp port %d", cfg.SMTPPort)
	}

	// Explicit values survive.
	cfg2 := Config{FetchTimeout: 3 * time.Second}
	cfg2.applyDefaults()
	if cfg2.FetchTimeout != 3*time.Second {
		t.Fatalf("explicit timeout overwritten: %v", cfg2.FetchTimeout)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(Config{}); err != nil {
		t.Fatalf("zero config must validate: %v", err)
	}
	if err := ValidateConfig(Config{FetchAttempts: -1}); err == nil {
		t.Fatalf("expected error for negative attempts")
	}
	if err := ValidateConfig(Config{SMTPHost: "smtp.x.test"}); err == nil {
		t.Fatalf("expected error for mail host without from address")
	}
	if err := ValidateConfig(Config{SMTPHost: "smtp.x.test", MailFrom: "a@b.test"}); err != nil {
		t.Fatalf("valid mail config rejected: %v", err)
	}
}
