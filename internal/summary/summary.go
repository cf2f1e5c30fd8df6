// Package summary accumulates per-assay scalar metrics into the single
// per-subject summary table that is the pipeline's output.
package summary

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/harrison/mousemetrics/internal/assay"
	"github.com/harrison/mousemetrics/internal/colony"
)

// Row is one subject's summary record. A row is created the first time any
// assay produces a metric for the subject; fields for assays that produced
// nothing stay at their zero defaults.
type Row struct {
	Subject       string
	OFCenterPct   float64
	OFDistanceM   float64
	LDLightPct    float64
	LDDistanceM   float64
	LDTransitions int
	SGDurationSec float64
	SGBouts       int
	Marbles       int
	Genotype      string
	Sex           string
}

// Table is the summary accumulator, keyed by subject ID.
type Table struct {
	rows map[string]*Row
}

// NewTable returns an empty summary table.
func NewTable() *Table {
	return &Table{rows: make(map[string]*Row)}
}

// Row returns the subject's row, creating a zero-valued one on first use.
func (t *Table) Row(subject string) *Row {
	r, ok := t.rows[subject]
	if !ok {
		r = &Row{Subject: subject}
		t.rows[subject] = r
	}
	return r
}

// Len returns the number of subjects in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Subjects returns the subject IDs in sorted order.
func (t *Table) Subjects() []string {
	subjects := make([]string, 0, len(t.rows))
	for s := range t.rows {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects
}

// Rows returns copies of all rows in subject order. Export and reporting use
// this so output is deterministic regardless of extraction order.
func (t *Table) Rows() []Row {
	rows := make([]Row, 0, len(t.rows))
	for _, s := range t.Subjects() {
		rows = append(rows, *t.rows[s])
	}
	return rows
}

// MergeOpenField folds open-field results into the table.
func (t *Table) MergeOpenField(results []assay.OpenFieldResult) {
	for _, res := range results {
		r := t.Row(res.Subject)
		r.OFCenterPct = res.CenterPct
		r.OFDistanceM = res.DistanceM
	}
}

// MergeLightDark folds light-dark results into the table. Never-left-dark
// subjects arrive as zero-valued results, which still creates their row.
func (t *Table) MergeLightDark(results []assay.LightDarkResult) {
	for _, res := range results {
		r := t.Row(res.Subject)
		r.LDLightPct = res.LightPct
		r.LDDistanceM = res.DistanceM
		r.LDTransitions = res.Transitions
	}
}

// MergeGrooming folds self-grooming results into the table.
func (t *Table) MergeGrooming(results []assay.GroomingResult) {
	for _, res := range results {
		r := t.Row(res.Subject)
		r.SGDurationSec = res.DurationSec
		r.SGBouts = res.Bouts
	}
}

// MergeMarbles folds marble-burying counts into the table. Counts for
// subjects no assay has seen are ignored rather than creating orphan rows;
// the workbook covers the whole colony, not just the scored cohort.
func (t *Table) MergeMarbles(results []assay.MarbleResult) {
	for _, res := range results {
		if r, ok := t.rows[res.Subject]; ok {
			r.Marbles = res.Buried
		}
	}
}

// AnnotateGenotypes resolves every subject against the colony database,
// filling Genotype and Sex. Unresolved subjects keep their defaults; each
// failure is returned so the caller can log it.
func (t *Table) AnnotateGenotypes(db *colony.Database) []error {
	var warnings []error
	for _, subject := range t.Subjects() {
		rec, err := db.Resolve(subject)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		r := t.rows[subject]
		r.Genotype = rec.GenotypeLabel()
		r.Sex = rec.Sex
	}
	return warnings
}

// Header returns the export column names, in output order.
func Header() []string {
	return []string{
		"Subj",
		"OF % center",
		"OF distance",
		"LD % light",
		"LD distance",
		"LD transitions",
		"SG duration",
		"SG bouts",
		"Marbles",
		"Genotype",
		"Sex",
	}
}

// Record returns the row's export fields, aligned with Header.
func (r Row) Record() []string {
	return []string{
		r.Subject,
		formatFloat(r.OFCenterPct),
		formatFloat(r.OFDistanceM),
		formatFloat(r.LDLightPct),
		formatFloat(r.LDDistanceM),
		strconv.Itoa(r.LDTransitions),
		formatFloat(r.SGDurationSec),
		strconv.Itoa(r.SGBouts),
		strconv.Itoa(r.Marbles),
		r.Genotype,
		r.Sex,
	}
}

// WriteCSV writes the table with a header row, one row per subject in sorted
// order.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows() {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("write row for %s: %w", row.Subject, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
