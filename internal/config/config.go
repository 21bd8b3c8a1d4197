// Package config loads the generator configuration.
//
// Every field has a default equal to the published corpus parameters, so a
// missing config file yields exactly the reference artifacts. A YAML file may
// override any subset of fields; unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"slicevec/internal/corpus"
	"slicevec/internal/export"
)

// MaxSpecs caps the number of specs a configured grid may enumerate. The
// builder holds every entry in memory at once.
const MaxSpecs = 4_000_000

// Grid mirrors corpus.Grid with YAML keys.
type Grid struct {
	Min           int  `yaml:"min" validate:"gte=-4096,lte=4096"`
	Max           int  `yaml:"max" validate:"gte=-4096,lte=4096,gtefield=Min"`
	IncludeAbsent bool `yaml:"include_absent"`
}

// Output controls where and how artifacts are written.
type Output struct {
	// Dir is resolved under the work directory when relative.
	Dir       string       `yaml:"dir" validate:"required"`
	Names     export.Names `yaml:"names"`
	GzipLevel int          `yaml:"gzip_level" validate:"gte=-2,lte=9"`
}

// Compat holds switches that trade exact slice semantics for compatibility
// with known implementations.
type Compat struct {
	AliasZeroStart bool `yaml:"alias_zero_start"`
}

// Config is the full generator configuration.
type Config struct {
	Grid      Grid   `yaml:"grid"`
	Reference []int  `yaml:"reference" validate:"max=4096"`
	Output    Output `yaml:"output"`
	Workers   int    `yaml:"workers" validate:"gte=1,lte=256"`
	Compat    Compat `yaml:"compat"`
}

// Default returns the configuration that reproduces the published corpus.
func Default() Config {
	g := corpus.DefaultGrid()
	return Config{
		Grid:      Grid{Min: g.Min, Max: g.Max, IncludeAbsent: g.IncludeAbsent},
		Reference: corpus.Reference(),
		Output: Output{
			Dir:       ".",
			Names:     export.DefaultNames(),
			GzipLevel: export.DefaultGzipLevel,
		},
		Workers: 1,
	}
}

// CorpusGrid converts the grid section into a corpus.Grid.
func (c Config) CorpusGrid() corpus.Grid {
	return corpus.Grid{Min: c.Grid.Min, Max: c.Grid.Max, IncludeAbsent: c.Grid.IncludeAbsent}
}

// Error reports an unreadable or invalid configuration.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if err := c.Output.Names.Validate(); err != nil {
		return err
	}
	grid := c.CorpusGrid()
	if err := grid.Validate(); err != nil {
		return err
	}
	if n := grid.Size(); n > MaxSpecs {
		return fmt.Errorf("grid [%d, %d] enumerates %d specs, more than the limit of %d", c.Grid.Min, c.Grid.Max, n, MaxSpecs)
	}
	return nil
}

// Load reads path over Default and validates the result. An empty path
// returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Path: path, Err: err}
	}
	cfg, err = Parse(b)
	if err != nil {
		return Config{}, &Error{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
