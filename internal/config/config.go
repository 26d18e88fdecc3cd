// Package config loads settings for the statement CLI and service from a
// YAML file, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sink kinds.
const (
	SinkSheets   = "sheets"
	SinkTable    = "table"
	SinkWorkbook = "workbook"
)

const defaultCredentialsFile = "credentials.json"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

type WorkbookConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

type TableConfig struct {
	ServiceURL string `yaml:"service_url"`
	Name       string `yaml:"name"`
}

// Config selects where totals are written and which rules classify them.
type Config struct {
	Google    GoogleConfig   `yaml:"google"`
	Sink      string         `yaml:"sink"`
	SheetID   string         `yaml:"sheet_id"`
	Workbook  WorkbookConfig `yaml:"workbook"`
	Table     TableConfig    `yaml:"table"`
	RulesFile string         `yaml:"rules_file"`
}

func defaults() *Config {
	return &Config{
		Google: GoogleConfig{CredentialsFile: defaultCredentialsFile},
		Sink:   SinkSheets,
	}
}

// Load reads the YAML file at path, then applies environment overrides.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Google.CredentialsFile == "" {
		cfg.Google.CredentialsFile = defaultCredentialsFile
	}
	if cfg.Sink == "" {
		cfg.Sink = SinkSheets
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds a Config from the environment alone, for the service.
func FromEnv() *Config {
	_ = godotenv.Load()

	cfg := defaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	override(&c.Sink, "SINK")
	override(&c.SheetID, "SHEET_ID")
	override(&c.Google.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	override(&c.Workbook.Path, "WORKBOOK_PATH")
	override(&c.Workbook.Sheet, "WORKBOOK_SHEET")
	override(&c.Table.ServiceURL, "TABLE_SERVICE_URL")
	override(&c.Table.Name, "TOTALS_TABLE")
	override(&c.RulesFile, "RULES_FILE")
}

func override(field *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*field = v
	}
}

// Validate checks that the selected sink has what it needs.
func (c *Config) Validate() error {
	switch c.Sink {
	case SinkSheets:
		if c.SheetID == "" {
			return fmt.Errorf("%w: sheet id is required for the sheets sink", ErrInvalidConfig)
		}
		if _, err := os.Stat(c.Google.CredentialsFile); err != nil {
			return fmt.Errorf("%w: credentials file not found: %s", ErrInvalidConfig, c.Google.CredentialsFile)
		}
	case SinkWorkbook:
		if c.Workbook.Path == "" {
			return fmt.Errorf("%w: workbook.path is required for the workbook sink", ErrInvalidConfig)
		}
	case SinkTable:
		if c.Table.ServiceURL == "" {
			return fmt.Errorf("%w: table.service_url is required for the table sink", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown sink %q", ErrInvalidConfig, c.Sink)
	}
	return nil
}
