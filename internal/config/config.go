// Package config holds run settings. Values come from an optional JSON
// config file, GENOMICSEQ_* environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFile is read from the working directory when no --config is
// given. It is optional.
const DefaultConfigFile = "genomicseq.json"

// ErrMissingMandatoryArgument is returned when a required path is unset.
var ErrMissingMandatoryArgument = errors.New("mandatory argument missing")

type Config struct {
	Genome    string `mapstructure:"genome"`
	Locations string `mapstructure:"locations"`
	Output    string `mapstructure:"output"`

	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
	Verbose  bool   `mapstructure:"verbose"`

	// Bounds is "strict" or "clamp"; see extract.ParseBounds.
	Bounds string `mapstructure:"bounds"`

	NcbiCachePath    string `mapstructure:"ncbi_cache_path"`
	NcbiApiKey       string `mapstructure:"ncbi_api_key"`
	NcbiCacheTTLSecs int64  `mapstructure:"ncbi_cache_ttl_seconds"`
}

// Keys lists every setting so environment variables are seen by Unmarshal.
var Keys = []string{
	"genome", "locations", "output",
	"log_file", "log_level", "verbose",
	"bounds",
	"ncbi_cache_path", "ncbi_api_key", "ncbi_cache_ttl_seconds",
}

// NewViper returns a viper instance with defaults and environment binding.
// Callers bind their flags to it before calling LoadConfig.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("bounds", "strict")
	v.SetDefault("ncbi_cache_ttl_seconds", 7*24*3600)
	v.SetEnvPrefix("genomicseq")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, k := range Keys {
		_ = v.BindEnv(k)
	}
	return v
}

// LoadConfig reads path into v and decodes the merged settings. If path is
// empty, ./genomicseq.json is used when present.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if _, err := os.Stat(DefaultConfigFile); err == nil {
		v.SetConfigFile(DefaultConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", DefaultConfigFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", DefaultConfigFile, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// Validate checks that the three mandatory paths are set.
func (c *Config) Validate() error {
	var missing []string
	if c.Genome == "" {
		missing = append(missing, "genome (-i)")
	}
	if c.Locations == "" {
		missing = append(missing, "locations (-l)")
	}
	if c.Output == "" {
		missing = append(missing, "output (-o)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingMandatoryArgument, strings.Join(missing, ", "))
	}
	return nil
}
