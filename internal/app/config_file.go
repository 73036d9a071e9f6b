package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and env vars.
type FileConfig struct {
	UserAgent string `yaml:"userAgent" json:"userAgent"`

	Fetch struct {
		Timeout       time.Duration `yaml:"timeout" json:"timeout"`
		Attempts      int           `yaml:"attempts" json:"attempts"`
		MaxConcurrent int           `yaml:"maxConcurrent" json:"maxConcurrent"`
	} `yaml:"fetch" json:"fetch"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	// Noise phrases extend the built-in boilerplate list without code changes.
	Noise struct {
		Phrases []string `yaml:"phrases" json:"phrases"`
	} `yaml:"noise" json:"noise"`

	Mail struct {
		Host     string `yaml:"host" json:"host"`
		Port     int    `yaml:"port" json:"port"`
		Username string `yaml:"username" json:"username"`
		Password string `yaml:"password" json:"password"`
		From     string `yaml:"from" json:"from"`
	} `yaml:"mail" json:"mail"`

	Listen  string `yaml:"listen" json:"listen"`
	Output  string `yaml:"output" json:"output"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset/zero in cfg. Flags should already have been
// parsed; this lets file config supply defaults while preserving explicit
// flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.FetchAttempts == 0 && fc.Fetch.Attempts > 0 {
		cfg.FetchAttempts = fc.Fetch.Attempts
	}
	if cfg.MaxConcurrentFetches == 0 && fc.Fetch.MaxConcurrent > 0 {
		cfg.MaxConcurrentFetches = fc.Fetch.MaxConcurrent
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if len(cfg.ExtraNoisePhrases) == 0 && len(fc.Noise.Phrases) > 0 {
		cfg.ExtraNoisePhrases = append([]string{}, fc.Noise.Phrases...)
	}

	if cfg.SMTPHost == "" && fc.Mail.Host != "" {
		cfg.SMTPHost = fc.Mail.Host
	}
	if cfg.SMTPPort == 0 && fc.Mail.Port > 0 {
		cfg.SMTPPort = fc.Mail.Port
	}
	if cfg.SMTPUser == "" && fc.Mail.Username != "" {
		cfg.SMTPUser = fc.Mail.Username
	}
	if cfg.SMTPPass == "" && fc.Mail.Password != "" {
		cfg.SMTPPass = fc.Mail.Password
	}
	if cfg.MailFrom == "" && fc.Mail.From != "" {
		cfg.MailFrom = fc.Mail.From
	}

	if cfg.ListenAddr == "" && fc.Listen != "" {
		cfg.ListenAddr = fc.Listen
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
