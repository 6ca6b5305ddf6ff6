// Package config loads the fintrack configuration.
//
// Values come, by increasing priority, from defaults, a YAML file,
// a .env file and the environment:
//
//	storage:
//	  kind: sqlite            # FINTRACK_STORAGE: dir, sqlite, postgres or memory
//	  location: ~/.fintrack/ledgers.db  # FINTRACK_LOCATION
//	currency: INR             # FINTRACK_CURRENCY
//	verbose: false            # FINTRACK_VERBOSE
//	assist:
//	  model: gemini-2.5-pro   # FINTRACK_MODEL
//
// The assistant API key is only read from GEMINI_API_KEY or GOOGLE_API_KEY.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/storage"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvConfig   = "FINTRACK_CONFIG"
	EnvStorage  = "FINTRACK_STORAGE"
	EnvLocation = "FINTRACK_LOCATION"
	EnvCurrency = "FINTRACK_CURRENCY"
	EnvVerbose  = "FINTRACK_VERBOSE"
	EnvModel    = "FINTRACK_MODEL"
)

// DefaultModel is the assistant model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Currency string        `yaml:"currency"`
	Verbose  bool          `yaml:"verbose"`
	Assist   AssistConfig  `yaml:"assist"`
}

// StorageConfig selects where ledgers are persisted.
type StorageConfig struct {
	Kind     string `yaml:"kind"`
	Location string `yaml:"location"`
}

// AssistConfig configures the assistant.
type AssistConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// Default returns the configuration used when nothing is set: ledgers in
// files under ~/.fintrack, amounts in the default currency.
func Default() *Config {
	location := ".fintrack"
	if home, err := os.UserHomeDir(); err == nil {
		location = filepath.Join(home, ".fintrack")
	}
	return &Config{
		Storage:  StorageConfig{Kind: storage.KindDir, Location: location},
		Currency: fintrack.DefaultCurrency,
		Assist:   AssistConfig{Model: DefaultModel},
	}
}

// Load loads the configuration.
//
// path is the YAML file to read. If empty, FINTRACK_CONFIG is used, and if
// that is empty too no file is read. A .env file in the current directory is
// loaded if present, or the one at envPath if given.
func Load(path string, envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// ignore a missing .env
		_ = godotenv.Load()
	}

	c := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := c.readFile(path); err != nil {
			return nil, err
		}
	}

	c.Storage.Kind = getEnvOrDefault(EnvStorage, c.Storage.Kind)
	c.Storage.Location = expandHome(getEnvOrDefault(EnvLocation, c.Storage.Location))
	c.Currency = strings.ToUpper(getEnvOrDefault(EnvCurrency, c.Currency))
	c.Assist.Model = getEnvOrDefault(EnvModel, c.Assist.Model)
	c.Assist.APIKey = getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))
	verbose, err := parseBoolEnv(EnvVerbose, c.Verbose)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvVerbose, err)
	}
	c.Verbose = verbose

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config file %q does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

// Validate validates the configuration.
// required lists optional settings that must be set, only "assist.apiKey"
// for now.
func (c *Config) Validate(required ...string) error {
	kind := strings.ToLower(c.Storage.Kind)
	known := false
	for _, k := range storage.Kinds {
		known = known || k == kind
	}
	if !known {
		return fmt.Errorf("unknown storage kind %q, want one of %s", c.Storage.Kind, strings.Join(storage.Kinds, ", "))
	}
	if kind != storage.KindMemory && c.Storage.Location == "" {
		return fmt.Errorf("storage %q requires a location", kind)
	}
	if !fintrack.KnownCurrency(c.Currency) {
		return fmt.Errorf("unknown currency %q", c.Currency)
	}

	var missing []string
	for _, r := range required {
		switch r {
		case "assist.apiKey":
			if c.Assist.APIKey == "" {
				missing = append(missing, "GEMINI_API_KEY")
			}
		default:
			return fmt.Errorf("unknown configuration setting %q", r)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBoolEnv parses a bool from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(value)
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
