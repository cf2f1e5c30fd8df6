package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
grooming:
  dir: /data/groom_times
output:
  csv: /data/out/summary.csv
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.OpenField.ExpectedFrames != 14400 {
		t.Errorf("OF ExpectedFrames = %d, want 14400", cfg.OpenField.ExpectedFrames)
	}
	if math.Abs(cfg.OpenField.PxToMeters-0.42/217) > 1e-12 {
		t.Errorf("OF PxToMeters = %g", cfg.OpenField.PxToMeters)
	}
	if cfg.LightDark.ExpectedFrames != 17400 {
		t.Errorf("LD ExpectedFrames = %d, want 17400", cfg.LightDark.ExpectedFrames)
	}
	if math.Abs(cfg.LightDark.PxToMeters()-0.9144/1313) > 1e-12 {
		t.Errorf("LD PxToMeters = %g", cfg.LightDark.PxToMeters())
	}
	if cfg.Grooming.SubjectPattern != `^(?:\d{6}_CL)?(.+)$` {
		t.Errorf("grooming pattern = %q", cfg.Grooming.SubjectPattern)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
log_level: debug
open_field:
  dir: /data/of
  expected_frames: 18000
  px_to_meters: 0.002
light_dark:
  dir: /data/ld
  never_left_dir: /data/ld_never
  chamber_perimeter_px: 1672
grooming:
  dir: /data/groom
  subject_pattern: '^groom_(.+)$'
marbles:
  workbook: /data/Marbles_buried.xlsx
colony:
  exports: [/data/Syt3.csv, /data/Syt7.csv]
  cage_id_sheet: /data/cage_IDs.csv
output:
  csv: /data/out/summary.csv
  markdown: /data/out/summary.md
  database: /data/out/results.db
  run_label: rotation cohort
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.OpenField.ExpectedFrames != 18000 || cfg.OpenField.PxToMeters != 0.002 {
		t.Errorf("OF overrides not applied: %+v", cfg.OpenField)
	}
	// Unset LD frames keep the default while the perimeter is overridden.
	if cfg.LightDark.ExpectedFrames != 17400 {
		t.Errorf("LD ExpectedFrames = %d", cfg.LightDark.ExpectedFrames)
	}
	if cfg.LightDark.ChamberPerimeterPx != 1672 {
		t.Errorf("LD ChamberPerimeterPx = %g", cfg.LightDark.ChamberPerimeterPx)
	}
	if cfg.Grooming.SubjectPattern != `^groom_(.+)$` {
		t.Errorf("grooming pattern = %q", cfg.Grooming.SubjectPattern)
	}
	if !cfg.Colony.Enabled() {
		t.Error("colony should be enabled")
	}
	if cfg.Output.RunLabel != "rotation cohort" {
		t.Errorf("RunLabel = %q", cfg.Output.RunLabel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "no assays",
			content: "output:\n  csv: /out.csv\n",
			wantMsg: "no assays configured",
		},
		{
			name:    "missing csv output",
			content: "grooming:\n  dir: /g\n",
			wantMsg: "output.csv is required",
		},
		{
			name:    "bad log level",
			content: "log_level: loud\ngrooming:\n  dir: /g\noutput:\n  csv: /out.csv\n",
			wantMsg: "invalid log_level",
		},
		{
			name: "pattern without capture group",
			content: "grooming:\n  dir: /g\n  subject_pattern: '^groom_.+$'\n" +
				"output:\n  csv: /out.csv\n",
			wantMsg: "exactly one capture group",
		},
		{
			name: "unparsable pattern",
			content: "grooming:\n  dir: /g\n  subject_pattern: '^([' \n" +
				"output:\n  csv: /out.csv\n",
			wantMsg: "invalid pattern",
		},
		{
			name: "colony half-configured",
			content: "grooming:\n  dir: /g\ncolony:\n  cage_id_sheet: /c.csv\n" +
				"output:\n  csv: /out.csv\n",
			wantMsg: "must be set together",
		},
		{
			name: "negative frames",
			content: "open_field:\n  dir: /of\n  expected_frames: -1\n" +
				"output:\n  csv: /out.csv\n",
			wantMsg: "expected_frames must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", err, tt.wantMsg)
			}
		})
	}
}
