// config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MOVIEFINDER_"

type ServerConfig struct {
	Port               string        `yaml:"port"`
	Mode               string        `yaml:"mode"` // gin mode: release, debug, test
	ShutdownTimeoutStr string        `yaml:"shutdown_timeout"`
	ShutdownTimeout    time.Duration `yaml:"-"` // Parsed duration
	MetricsEnabled     bool          `yaml:"metrics_enabled"`
}

type DatasetConfig struct {
	Source    string `yaml:"source"` // "file" or "mysql"
	Path      string `yaml:"path"`
	URL       string `yaml:"url"`       // downloaded to Path when Path does not exist
	IndexURL  string `yaml:"index_url"` // HTML listing to find the download link on when URL is empty
	Delimiter string `yaml:"delimiter"`
	MinVotes  int    `yaml:"min_votes"`
	TitleType string `yaml:"title_type"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Table    string `yaml:"table"`
}

type QueryConfig struct {
	DefaultTopN int `yaml:"default_top_n"`
}

type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Database DatabaseConfig `yaml:"database"`
	Query    QueryConfig    `yaml:"query"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               "8080",
			Mode:               "release",
			ShutdownTimeoutStr: "15s",
			MetricsEnabled:     true,
		},
		Dataset: DatasetConfig{
			Source:    "file",
			Path:      "clean_imdb_movies.csv",
			MinVotes:  1000,
			TitleType: "movie",
		},
		Database: DatabaseConfig{
			Host:  "127.0.0.1",
			Port:  "3306",
			Table: "movies",
		},
		Query: QueryConfig{DefaultTopN: 3},
	}
}

// Load builds the configuration: defaults, then the YAML file at configPath (skipped
// when configPath is empty), then a .env file in the working directory if present, then
// MOVIEFINDER_* environment variables.
func Load(configPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	// Variables already in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s=%q: %w", envPrefix, key, v, err)
		}
		*dst = i
		return nil
	}
	setBool := func(key string, dst *bool) error {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s=%q: %w", envPrefix, key, v, err)
		}
		*dst = b
		return nil
	}

	setString("PORT", &c.Server.Port)
	setString("GIN_MODE", &c.Server.Mode)
	setString("DATASET_SOURCE", &c.Dataset.Source)
	setString("DATASET_PATH", &c.Dataset.Path)
	setString("DATASET_URL", &c.Dataset.URL)
	setString("DATASET_INDEX_URL", &c.Dataset.IndexURL)
	setString("DATASET_DELIMITER", &c.Dataset.Delimiter)
	setString("DB_HOST", &c.Database.Host)
	setString("DB_PORT", &c.Database.Port)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("DB_TABLE", &c.Database.Table)

	if err := setInt("MIN_VOTES", &c.Dataset.MinVotes); err != nil {
		return err
	}
	if err := setInt("DEFAULT_TOP_N", &c.Query.DefaultTopN); err != nil {
		return err
	}
	if err := setBool("METRICS_ENABLED", &c.Server.MetricsEnabled); err != nil {
		return err
	}
	return setBool("VERBOSE", &c.Log.Verbose)
}

func (c *Config) finalize() error {
	var err error
	if c.Server.ShutdownTimeoutStr != "" {
		c.Server.ShutdownTimeout, err = time.ParseDuration(c.Server.ShutdownTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse server.shutdown_timeout: %w", err)
		}
	} else {
		c.Server.ShutdownTimeout = 15 * time.Second // Default
	}

	switch c.Server.Mode {
	case "":
		c.Server.Mode = "release"
	case "release", "debug", "test":
	default:
		return fmt.Errorf("unknown server.mode %q: use release, debug or test", c.Server.Mode)
	}

	c.Dataset.Source = strings.ToLower(strings.TrimSpace(c.Dataset.Source))
	switch c.Dataset.Source {
	case "", "file":
		c.Dataset.Source = "file"
	case "mysql":
	default:
		return fmt.Errorf("unknown dataset.source %q: use \"file\" or \"mysql\"", c.Dataset.Source)
	}

	if _, err := c.Dataset.Comma(); err != nil {
		return err
	}
	if c.Query.DefaultTopN <= 0 {
		return fmt.Errorf("query.default_top_n must be positive, got %d", c.Query.DefaultTopN)
	}
	return nil
}

// Comma returns the configured delimiter rune. Zero means infer from the file name.
// Accepts a single character or the escapes "\t" and "tab".
func (d DatasetConfig) Comma() (rune, error) {
	switch d.Delimiter {
	case "":
		return 0, nil
	case `\t`, "tab", "\t":
		return '\t', nil
	}
	r := []rune(d.Delimiter)
	if len(r) != 1 {
		return 0, fmt.Errorf("dataset.delimiter must be a single character, got %q", d.Delimiter)
	}
	return r[0], nil
}
