package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrison/mousemetrics/internal/summary"
)

func sampleRows() []summary.Row {
	return []summary.Row{
		{
			Subject: "Cage1_Rn", OFCenterPct: 12.5, OFDistanceM: 30.2,
			LDLightPct: 40, LDTransitions: 8, SGDurationSec: 45, SGBouts: 3,
			Marbles: 11, Genotype: "Syt3-/-", Sex: "F",
		},
		{Subject: "Cage2_Ln", Genotype: "Syt3+/+", Sex: "M"},
	}
}

func sampleGroups() []summary.GroupStats {
	return []summary.GroupStats{
		{
			Genotype: "Syt3-/-", N: 1,
			Mean:   map[string]float64{"SG duration": 45},
			StdDev: map[string]float64{"SG duration": 0},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown("pilot cohort", sampleRows(), sampleGroups())

	for _, want := range []string{
		"# Behavioral assay summary",
		"**Run:** pilot cohort",
		"**Subjects:** 2",
		"## Per-subject metrics",
		"| Subj |",
		"Cage1_Rn",
		"Cage2_Ln",
		"## Group statistics",
		"Syt3-/-",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownNoGroups(t *testing.T) {
	md := Markdown("", sampleRows(), nil)
	if strings.Contains(md, "## Group statistics") {
		t.Error("group section should be omitted without groups")
	}
	if strings.Contains(md, "**Run:**") {
		t.Error("run line should be omitted without a label")
	}
}

func TestMarkdownEscapesPipes(t *testing.T) {
	rows := []summary.Row{{Subject: "weird|name"}}
	md := Markdown("", rows, nil)
	if !strings.Contains(md, `weird\|name`) {
		t.Error("pipe in subject ID should be escaped in the table")
	}
}

func TestHTML(t *testing.T) {
	md := Markdown("pilot", sampleRows(), sampleGroups())
	html, err := HTML(md)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(html)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>Behavioral assay summary</h1>",
		"Cage1_Rn",
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestPrintConsole(t *testing.T) {
	var buf bytes.Buffer
	PrintConsole(&buf, sampleRows())

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Subj") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Cage1_Rn") || !strings.Contains(lines[1], "Syt3-/-") {
		t.Errorf("row 1 = %q", lines[1])
	}
}
