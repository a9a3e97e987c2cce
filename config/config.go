// Package config loads settings for the duo command-line tools.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Output formats.
const (
	FormatBinary = "bin"
	FormatHex    = "hex"
)

// Config holds the tool settings. Zero fields in a file keep their defaults.
type Config struct {
	// Origin is the address the program is assembled at.
	Origin uint16 `toml:"origin"`
	// Format selects the output encoding: "bin" or "hex".
	Format string `toml:"format"`
	// Output is the output file. Empty means derive from the source name.
	Output string `toml:"output"`
	// SymbolFile, when set, receives the symbol table as YAML.
	SymbolFile string `toml:"symbols"`
	// LogLevel is a logrus level name.
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Origin:   0,
		Format:   FormatBinary,
		LogLevel: logrus.WarnLevel.String(),
	}
}

// Load decodes the TOML file at path over the defaults. A missing file is
// an error; unknown keys are rejected.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading configuration file %s", path)
	}
	return Parse(string(contents))
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (*Config, error) {
	c := Default()
	md, err := toml.Decode(text, c)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding configuration")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the format and log level.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatBinary, FormatHex:
	default:
		return errors.Errorf("invalid output format %q: must be %q or %q", c.Format, FormatBinary, FormatHex)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
