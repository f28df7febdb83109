package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultInput    = "catalog.yml"
	DefaultTitle    = "A Random name"
	DefaultURL      = "http://localhost:8000/catalog.opds"
	DefaultPackager = "opdsgen"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "opdsgen", "config.yml")
}

// Load reads the config from path, $OPDSGEN_CONFIG or DefaultPath, in that
// order, then applies OPDSGEN_* environment overrides. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("feed.input", DefaultInput)
	v.SetDefault("feed.title", DefaultTitle)
	v.SetDefault("feed.url", DefaultURL)
	v.SetDefault("feed.root_url", "")
	v.SetDefault("feed.packager", DefaultPackager)
	v.SetDefault("feed.author_name", "")
	v.SetDefault("feed.author_uri", "")

	v.SetEnvPrefix("OPDSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("OPDSGEN_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Feed.Input = ExpandHome(cfg.Feed.Input)

	return &cfg, nil
}

// Write encodes cfg as YAML.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, cfg)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
