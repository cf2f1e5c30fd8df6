// Package config defines the YAML pipeline configuration: raw-data locations,
// recording constants, filename parsing rules, and output destinations.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Canonical recording constants. Open-field videos are scored against 14400
// frames; light-dark videos against 29 fps × 600 s. The open-field
// pixel-to-meter factor comes from the tub diameter (~42 cm ≈ 217 px), the
// light-dark factor from the lit chamber perimeter (6 × ~12 in).
const (
	defaultOFExpectedFrames = 14400
	defaultOFPxToMeters     = 0.42 / 217
	defaultLDExpectedFrames = 29 * 600
	defaultLDPerimeterM     = 2 * (0.3048 + 0.1524)
	defaultLDPerimeterPx    = 218 + 224 + 427 + 444
)

// OpenFieldConfig locates and parameterizes the open-field extraction.
type OpenFieldConfig struct {
	// Dir contains one tracking CSV per subject; empty disables the assay.
	Dir string `yaml:"dir"`

	// SubjectPattern extracts the subject ID from a filename stem via a
	// single capture group.
	SubjectPattern string `yaml:"subject_pattern"`

	// ExpectedFrames is the canonical recording length in frames.
	ExpectedFrames int `yaml:"expected_frames"`

	// PxToMeters converts pixel distance to meters.
	PxToMeters float64 `yaml:"px_to_meters"`
}

// LightDarkConfig locates and parameterizes the light-dark extraction.
type LightDarkConfig struct {
	// Dir contains one folder per tracked subject; empty disables the assay.
	Dir string `yaml:"dir"`

	// NeverLeftDir lists videos of subjects that never entered the light
	// chamber and were not tracked.
	NeverLeftDir string `yaml:"never_left_dir"`

	// SubjectPattern extracts the subject ID from a folder name (or
	// never-left video stem) via a single capture group.
	SubjectPattern string `yaml:"subject_pattern"`

	// ExpectedFrames is the canonical recording length in frames.
	ExpectedFrames int `yaml:"expected_frames"`

	// ChamberPerimeterM and ChamberPerimeterPx calibrate the
	// pixel-to-meter conversion from the lit chamber dimensions.
	ChamberPerimeterM  float64 `yaml:"chamber_perimeter_m"`
	ChamberPerimeterPx float64 `yaml:"chamber_perimeter_px"`
}

// PxToMeters returns the light-dark pixel-to-meter conversion factor.
func (c LightDarkConfig) PxToMeters() float64 {
	return c.ChamberPerimeterM / c.ChamberPerimeterPx
}

// GroomingConfig locates the self-grooming score sheets.
type GroomingConfig struct {
	// Dir contains one score CSV per subject; empty disables the assay.
	Dir string `yaml:"dir"`

	// SubjectPattern extracts the subject ID from a filename stem via a
	// single capture group.
	SubjectPattern string `yaml:"subject_pattern"`
}

// MarblesConfig locates the marble-burying workbook.
type MarblesConfig struct {
	// Workbook is the xlsx path; empty disables the assay.
	Workbook string `yaml:"workbook"`
}

// ColonyConfig locates the genotype database exports and the blinded cage-ID
// sheet. Both empty disables genotype annotation.
type ColonyConfig struct {
	Exports     []string `yaml:"exports"`
	CageIDSheet string   `yaml:"cage_id_sheet"`
}

// Enabled reports whether genotype annotation is configured.
func (c ColonyConfig) Enabled() bool {
	return len(c.Exports) > 0 && c.CageIDSheet != ""
}

// OutputConfig sets where results are written. Empty fields disable that
// output; at least the CSV export is required.
type OutputConfig struct {
	CSV      string `yaml:"csv"`
	Markdown string `yaml:"markdown"`
	HTML     string `yaml:"html"`
	Database string `yaml:"database"`
	RunLabel string `yaml:"run_label"`
}

// Config is the full pipeline configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	OpenField OpenFieldConfig `yaml:"open_field"`
	LightDark LightDarkConfig `yaml:"light_dark"`
	Grooming  GroomingConfig  `yaml:"grooming"`
	Marbles   MarblesConfig   `yaml:"marbles"`
	Colony    ColonyConfig    `yaml:"colony"`
	Output    OutputConfig    `yaml:"output"`
}

// DefaultConfig returns a Config with the canonical recording constants and
// the filename conventions of the tracking/scoring tools filled in. Paths are
// left empty and must come from the config file.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		OpenField: OpenFieldConfig{
			SubjectPattern: `^(.+)_LocationOutput$`,
			ExpectedFrames: defaultOFExpectedFrames,
			PxToMeters:     defaultOFPxToMeters,
		},
		LightDark: LightDarkConfig{
			SubjectPattern:     `^(?:\d{6}_)?(.+)$`,
			ExpectedFrames:     defaultLDExpectedFrames,
			ChamberPerimeterM:  defaultLDPerimeterM,
			ChamberPerimeterPx: defaultLDPerimeterPx,
		},
		Grooming: GroomingConfig{
			SubjectPattern: `^(?:\d{6}_CL)?(.+)$`,
		},
	}
}

// LoadConfig reads and validates a pipeline configuration file. Unset numeric
// fields and patterns inherit the defaults; the file itself is required.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	merge(cfg, &fileCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// merge applies non-zero values from file over the defaults.
func merge(cfg, file *Config) {
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}

	cfg.OpenField.Dir = file.OpenField.Dir
	if file.OpenField.SubjectPattern != "" {
		cfg.OpenField.SubjectPattern = file.OpenField.SubjectPattern
	}
	if file.OpenField.ExpectedFrames != 0 {
		cfg.OpenField.ExpectedFrames = file.OpenField.ExpectedFrames
	}
	if file.OpenField.PxToMeters != 0 {
		cfg.OpenField.PxToMeters = file.OpenField.PxToMeters
	}

	cfg.LightDark.Dir = file.LightDark.Dir
	cfg.LightDark.NeverLeftDir = file.LightDark.NeverLeftDir
	if file.LightDark.SubjectPattern != "" {
		cfg.LightDark.SubjectPattern = file.LightDark.SubjectPattern
	}
	if file.LightDark.ExpectedFrames != 0 {
		cfg.LightDark.ExpectedFrames = file.LightDark.ExpectedFrames
	}
	if file.LightDark.ChamberPerimeterM != 0 {
		cfg.LightDark.ChamberPerimeterM = file.LightDark.ChamberPerimeterM
	}
	if file.LightDark.ChamberPerimeterPx != 0 {
		cfg.LightDark.ChamberPerimeterPx = file.LightDark.ChamberPerimeterPx
	}

	cfg.Grooming.Dir = file.Grooming.Dir
	if file.Grooming.SubjectPattern != "" {
		cfg.Grooming.SubjectPattern = file.Grooming.SubjectPattern
	}

	cfg.Marbles = file.Marbles
	cfg.Colony = file.Colony
	cfg.Output = file.Output
}

// Validate checks constants, patterns, and the overall shape of the
// configuration.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.OpenField.Dir == "" && c.LightDark.Dir == "" && c.Grooming.Dir == "" && c.Marbles.Workbook == "" {
		return fmt.Errorf("no assays configured: set at least one of open_field.dir, light_dark.dir, grooming.dir, marbles.workbook")
	}

	if c.OpenField.Dir != "" {
		if err := validatePattern(c.OpenField.SubjectPattern); err != nil {
			return fmt.Errorf("open_field.subject_pattern: %w", err)
		}
		if c.OpenField.ExpectedFrames <= 0 {
			return fmt.Errorf("open_field.expected_frames must be > 0, got %d", c.OpenField.ExpectedFrames)
		}
		if c.OpenField.PxToMeters <= 0 {
			return fmt.Errorf("open_field.px_to_meters must be > 0, got %g", c.OpenField.PxToMeters)
		}
	}

	if c.LightDark.Dir != "" {
		if err := validatePattern(c.LightDark.SubjectPattern); err != nil {
			return fmt.Errorf("light_dark.subject_pattern: %w", err)
		}
		if c.LightDark.ExpectedFrames <= 0 {
			return fmt.Errorf("light_dark.expected_frames must be > 0, got %d", c.LightDark.ExpectedFrames)
		}
		if c.LightDark.ChamberPerimeterM <= 0 || c.LightDark.ChamberPerimeterPx <= 0 {
			return fmt.Errorf("light_dark chamber perimeters must be > 0")
		}
	}

	if c.Grooming.Dir != "" {
		if err := validatePattern(c.Grooming.SubjectPattern); err != nil {
			return fmt.Errorf("grooming.subject_pattern: %w", err)
		}
	}

	if len(c.Colony.Exports) > 0 != (c.Colony.CageIDSheet != "") {
		return fmt.Errorf("colony.exports and colony.cage_id_sheet must be set together")
	}

	if c.Output.CSV == "" {
		return fmt.Errorf("output.csv is required")
	}

	return nil
}

// validatePattern requires a compilable regex with exactly one capture group.
func validatePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if re.NumSubexp() != 1 {
		return fmt.Errorf("pattern %q must have exactly one capture group, has %d", pattern, re.NumSubexp())
	}
	return nil
}

// MustPattern compiles a pattern already checked by Validate.
func MustPattern(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}
