package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/aul2madb/internal/sink"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "AUL2MADB_"

// Default values.
const (
	DefaultOutput = "./UnifiedLogs.db"
	DefaultFormat = sink.FormatSQLite
)

// Validation failures. All of them are reported before any output is created.
var (
	ErrInputNotDir   = errors.New("not a logarchive or a directory")
	ErrOutputExists  = errors.New("output already exists")
	ErrInvalidFormat = errors.New("invalid output format")
)

// Config is the configuration of one conversion run.
type Config struct {
	// Input is a .logarchive bundle or an exported Unified Logs tree.
	Input string `env:"INPUT"`

	// OutputFormat selects the sink.
	OutputFormat sink.Format `env:"OUTPUT_FORMAT" envDefault:"sqlite"`

	// Output is the file to create. It must not exist.
	Output string `env:"OUTPUT" envDefault:"./UnifiedLogs.db"`

	// Verbose enables debug logging.
	Verbose bool `env:"VERBOSE"`

	// MetricsFile, when set, receives the run statistics in Prometheus
	// text format.
	MetricsFile string `env:"METRICS_FILE"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		OutputFormat: DefaultFormat,
		Output:       DefaultOutput,
	}
}

// Load returns the defaults overlaid with AUL2MADB_* variables. A nil
// environ reads the process environment.
func Load(environ map[string]string) (Config, error) {
	cfg := Default()
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Default(), fmt.Errorf("load environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the format, that Input is a directory and that Output does
// not exist yet. On success Input is replaced by its absolute, symlink-free
// form.
func (c *Config) Validate() error {
	if !validFormat(c.OutputFormat) {
		return fmt.Errorf("%w %q: must be one of %v", ErrInvalidFormat, c.OutputFormat, sink.ValidFormats)
	}

	input, err := canonicalize(c.Input)
	if err != nil {
		return fmt.Errorf("%s is %w", c.Input, ErrInputNotDir)
	}
	info, err := os.Stat(input)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is %w", input, ErrInputNotDir)
	}
	c.Input = input

	if _, err := os.Stat(c.Output); err == nil {
		return fmt.Errorf("%s: %w", c.Output, ErrOutputExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check output %s: %w", c.Output, err)
	}
	return nil
}

func canonicalize(path string) (string, error) {
	if path == "" {
		return "", fs.ErrNotExist
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func validFormat(f sink.Format) bool {
	for _, v := range sink.ValidFormats {
		if v == f {
			return true
		}
	}
	return false
}
