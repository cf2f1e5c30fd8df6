// Package report renders the summary table for humans: a Markdown report
// with per-genotype statistics, an optional HTML rendering of it, and colored
// console output.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/mousemetrics/internal/summary"
)

// md renders with the table extension so the pipe tables become real HTML
// tables.
var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown builds the full analysis report: run metadata, the per-subject
// summary table, and per-genotype descriptive statistics.
func Markdown(label string, rows []summary.Row, groups []summary.GroupStats) string {
	var sb strings.Builder

	sb.WriteString("# Behavioral assay summary\n\n")
	if label != "" {
		fmt.Fprintf(&sb, "**Run:** %s\n\n", label)
	}
	fmt.Fprintf(&sb, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "**Subjects:** %d\n\n", len(rows))

	sb.WriteString("## Per-subject metrics\n\n")
	writeMarkdownTable(&sb, summary.Header(), func(yield func([]string)) {
		for _, row := range rows {
			yield(row.Record())
		}
	})

	if len(groups) > 0 {
		sb.WriteString("\n## Group statistics\n\n")
		header := append([]string{"Genotype", "N"}, summary.MetricNames...)
		writeMarkdownTable(&sb, header, func(yield func([]string)) {
			for _, g := range groups {
				label := g.Genotype
				if label == "" {
					label = "(unresolved)"
				}
				cells := []string{label, fmt.Sprintf("%d", g.N)}
				for _, name := range summary.MetricNames {
					cells = append(cells, fmt.Sprintf("%.3g ± %.3g", g.Mean[name], g.StdDev[name]))
				}
				yield(cells)
			}
		})
	}

	return sb.String()
}

// HTML converts a Markdown report to standalone HTML.
func HTML(markdown string) ([]byte, error) {
	var buf strings.Builder
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Behavioral assay summary</title></head><body>\n")
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	buf.WriteString("</body></html>\n")
	return []byte(buf.String()), nil
}

// writeMarkdownTable writes a pipe table with the given header and rows.
func writeMarkdownTable(sb *strings.Builder, header []string, rows func(yield func([]string))) {
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	rows(func(cells []string) {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", "\\|")
		}
		sb.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	})
}

// PrintConsole writes a compact per-subject table to w, with a bold header
// when w supports color.
func PrintConsole(w io.Writer, rows []summary.Row) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf(
		"%-14s %10s %10s %10s %10s %6s %8s %6s %8s %-10s %-3s",
		"Subj", "OF%ctr", "OFdist", "LD%lt", "LDdist", "LDtr", "SGdur", "SGbt", "Marbles", "Genotype", "Sex")))
	for _, r := range rows {
		fmt.Fprintf(w, "%-14s %10.2f %10.2f %10.2f %10.3f %6d %8.1f %6d %8d %-10s %-3s\n",
			r.Subject, r.OFCenterPct, r.OFDistanceM, r.LDLightPct, r.LDDistanceM,
			r.LDTransitions, r.SGDurationSec, r.SGBouts, r.Marbles, r.Genotype, r.Sex)
	}
}
