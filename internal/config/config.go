package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotcommander/preflight/internal/scoring"
)

// Config represents the preflight configuration
type Config struct {
	Root           string         `mapstructure:"root" json:"root"`
	FollowSymlinks bool           `mapstructure:"followSymlinks" json:"followSymlinks"`
	Format         string         `mapstructure:"format" json:"format"`
	Output         string         `mapstructure:"output" json:"output,omitempty"`
	FailOn         string         `mapstructure:"failOn" json:"failOn"`
	Strategy       string         `mapstructure:"strategy" json:"strategy"`
	ProductType    string         `mapstructure:"productType" json:"productType,omitempty"`
	SpecsFile      string         `mapstructure:"specsFile" json:"specsFile,omitempty"`
	Quiet          bool           `mapstructure:"quiet" json:"quiet"`
	Verbose        bool           `mapstructure:"verbose" json:"verbose"`
	Concurrency    int            `mapstructure:"concurrency" json:"concurrency"`
	Baseline       BaselineConfig `mapstructure:"baseline" json:"baseline"`
	Server         ServerConfig   `mapstructure:"server" json:"server"`
}

// BaselineConfig locates the waiver file.
type BaselineConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// ServerConfig configures `preflight serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// Fail-on levels.
const (
	FailOnBlocking = "blocking"
	FailOnAdvisory = "advisory"
	FailOnNone     = "none"
)

// Formats lists the accepted report formats.
var Formats = []string{"console", "json", "markdown", "compact"}

// ConfigFiles are searched in order; the first readable file wins.
var ConfigFiles = []string{".preflightrc.json", ".preflightrc.yaml", ".preflightrc.yml"}

// DefaultBaselinePath is the waiver file name used when none is configured.
const DefaultBaselinePath = ".preflight-baseline.json"

// LoadConfig loads configuration from various sources. Config files are
// looked up in the working directory, then in rootPath.
func LoadConfig(rootPath string) (*Config, error) {
	viper.SetDefault("root", ".")
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("format", "console")
	viper.SetDefault("output", "")
	viper.SetDefault("failOn", FailOnBlocking)
	viper.SetDefault("strategy", scoring.StrategyDeduction)
	viper.SetDefault("productType", "")
	viper.SetDefault("specsFile", "")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("baseline.path", DefaultBaselinePath)
	viper.SetDefault("server.addr", ":8080")

	dirs := []string{"."}
	if rootPath != "" {
		dirs = append(dirs, rootPath)
	}
	found := false
	for _, dir := range dirs {
		for _, name := range ConfigFiles {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
			found = true
			break
		}
		if found {
			break
		}
	}

	// PREFLIGHT_FORMAT, PREFLIGHT_SERVER_ADDR, ...
	viper.SetEnvPrefix("PREFLIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	valid := false
	for _, f := range Formats {
		if config.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format: %s. Must be one of %s", config.Format, strings.Join(Formats, ", "))
	}

	switch config.FailOn {
	case FailOnBlocking, FailOnAdvisory, FailOnNone:
	default:
		return fmt.Errorf("invalid fail-on level: %s. Must be 'blocking', 'advisory', or 'none'", config.FailOn)
	}

	if _, err := scoring.StrategyByName(config.Strategy); err != nil {
		return err
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
