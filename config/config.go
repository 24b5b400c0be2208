package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"github.com/bigfoot-data/bigfoot/schema"
)

// Config holds the settings shared by all commands. Command line flags override the
// corresponding config values.
type Config struct {
	Data     string   `yaml:"data"`
	Prefix   string   `yaml:"prefix"`
	Workdir  string   `yaml:"workdir"`
	Google   Google   `yaml:"google"`
	BigQuery BigQuery `yaml:"bigquery"`
	Sheets   Sheets   `yaml:"sheets"`
}

// Google holds the OAuth2 client credentials and token cache used for the Sheets and Drive APIs.
type Google struct {
	Credentials string `yaml:"credentials"`
	Tokens      string `yaml:"tokens,omitempty"`
}

type BigQuery struct {
	Project        string `yaml:"project,omitempty"`
	Credentials    string `yaml:"credentials,omitempty"`
	SnapshotExpiry uint   `yaml:"snapshot-expiry"`
}

type Sheets struct {
	Header []string `yaml:"header"`
	Folder string   `yaml:"folder,omitempty"`
}

func Default(workdir string) *Config {
	return &Config{
		Data:    "data",
		Prefix:  "gradient",
		Workdir: workdir,
		Google: Google{
			Credentials: filepath.Join(workdir, ".google", "credentials.json"),
		},
		BigQuery: BigQuery{
			SnapshotExpiry: 7,
		},
		Sheets: Sheets{
			Header: append([]string{}, schema.Header...),
		},
	}
}

// Load reads the YAML configuration file at path over the defaults. A missing file is not an
// error and returns the defaults.
func Load(path string, defaults *Config) (*Config, error) {
	cfg := *defaults
	cfg.Sheets.Header = append([]string{}, defaults.Sheets.Header...)

	if path == "" {
		return &cfg, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}

		return nil, fmt.Errorf("error reading config file (%w)", err)
	}

	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %v (%w)", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %v (%w)", path, err)
	}

	return &cfg, nil
}

func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	bytes, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return renameio.WriteFile(path, bytes, 0o600)
}

func (c *Config) validate() error {
	if len(c.Sheets.Header) == 0 {
		return fmt.Errorf("empty sheets header")
	}

	for _, label := range c.Sheets.Header {
		if _, err := schema.Column(label); err != nil {
			return err
		}
	}

	if c.Prefix == "" {
		return fmt.Errorf("missing schema file prefix")
	}

	return nil
}
