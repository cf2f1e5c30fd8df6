package assay

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var ofPattern = regexp.MustCompile(`^(.+)_LocationOutput$`)

// writeOFCSV writes a tracking CSV with the given points and a fixed
// per-frame distance.
func writeOFCSV(t *testing.T, dir, subject string, points [][2]float64, distPerFrame float64) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("Frame,X,Y,Distance_px\n")
	for i, p := range points {
		fmt.Fprintf(&sb, "%d,%g,%g,%g\n", i, p[0], p[1], distPerFrame)
	}
	path := filepath.Join(dir, subject+"_LocationOutput.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
}

// circlePoints returns n points evenly spaced on a circle.
func circlePoints(cx, cy, r float64, n int) [][2]float64 {
	pts := make([][2]float64, n)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = [2]float64{cx + r*math.Cos(theta), cy + r*math.Sin(theta)}
	}
	return pts
}

func TestExtractOpenField(t *testing.T) {
	dir := t.TempDir()

	// Subject A traces the arena wall (radius 100 about (200,200)).
	writeOFCSV(t, dir, "subjA", circlePoints(200, 200, 100, 36), 2)
	// Subject B sits in the exact center.
	centerPts := make([][2]float64, 10)
	for i := range centerPts {
		centerPts[i] = [2]float64{200, 200}
	}
	writeOFCSV(t, dir, "subjB", centerPts, 0.5)

	results, arena, warnings, err := ExtractOpenField(OpenFieldOptions{
		Dir:            dir,
		SubjectPattern: ofPattern,
		ExpectedFrames: 100,
		PxToMeters:     0.01,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Arena fitted over the pooled cohort.
	if math.Abs(arena.X-200) > 1e-6 || math.Abs(arena.Y-200) > 1e-6 || math.Abs(arena.R-100) > 1e-6 {
		t.Errorf("arena = %+v, want center (200,200) r=100", arena)
	}

	byName := map[string]OpenFieldResult{}
	for _, r := range results {
		byName[r.Subject] = r
	}

	// Wall-hugger: 0 of 36 frames in the center zone; denominator is the
	// canonical 100 frames.
	a := byName["subjA"]
	if a.CenterPct != 0 {
		t.Errorf("subjA CenterPct = %g, want 0", a.CenterPct)
	}
	if math.Abs(a.DistanceM-36*2*0.01) > 1e-9 {
		t.Errorf("subjA DistanceM = %g, want %g", a.DistanceM, 36*2*0.01)
	}

	// Center-sitter: all 10 frames inside, over denominator 100 → 10%.
	b := byName["subjB"]
	if math.Abs(b.CenterPct-10) > 1e-9 {
		t.Errorf("subjB CenterPct = %g, want 10", b.CenterPct)
	}
	if math.Abs(b.DistanceM-10*0.5*0.01) > 1e-9 {
		t.Errorf("subjB DistanceM = %g, want %g", b.DistanceM, 10*0.5*0.01)
	}
}

func TestExtractOpenFieldBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeOFCSV(t, dir, "good", circlePoints(0, 0, 50, 12), 1)

	// A CSV that does not match the naming convention.
	if err := os.WriteFile(filepath.Join(dir, "notes.csv"), []byte("X,Y\n1,2\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	results, _, warnings, err := ExtractOpenField(OpenFieldOptions{
		Dir:            dir,
		SubjectPattern: ofPattern,
		ExpectedFrames: 100,
		PxToMeters:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Subject != "good" {
		t.Errorf("expected only subject 'good', got %+v", results)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning for non-conforming filename, got %v", warnings)
	}
}

func TestExtractOpenFieldVanishedFile(t *testing.T) {
	dir := t.TempDir()
	writeOFCSV(t, dir, "good", circlePoints(0, 0, 50, 12), 1)

	// A dangling symlink is listed by the scan but gone by read time; that
	// is a missing input, not a malformed record.
	ghost := filepath.Join(dir, "ghost_LocationOutput.csv")
	if err := os.Symlink(filepath.Join(dir, "deleted.csv"), ghost); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	results, _, warnings, err := ExtractOpenField(OpenFieldOptions{
		Dir:            dir,
		SubjectPattern: ofPattern,
		ExpectedFrames: 100,
		PxToMeters:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Subject != "good" {
		t.Errorf("expected only subject 'good', got %+v", results)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !errors.Is(warnings[0], ErrMissingInput) {
		t.Errorf("warning should be a missing-input error, got %v", warnings[0])
	}
}

func TestExtractOpenFieldEmptyDir(t *testing.T) {
	_, _, _, err := ExtractOpenField(OpenFieldOptions{
		Dir:            t.TempDir(),
		SubjectPattern: ofPattern,
		ExpectedFrames: 100,
		PxToMeters:     1,
	})
	if err == nil {
		t.Error("expected error for cohort with no usable trajectories")
	}
}

func TestExtractOpenFieldMissingDir(t *testing.T) {
	_, _, _, err := ExtractOpenField(OpenFieldOptions{
		Dir:            filepath.Join(t.TempDir(), "nope"),
		SubjectPattern: ofPattern,
		ExpectedFrames: 100,
		PxToMeters:     1,
	})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
