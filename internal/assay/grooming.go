package assay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/harrison/mousemetrics/internal/fileutil"
)

// GroomingOptions configures the self-grooming extraction.
type GroomingOptions struct {
	// Dir contains one headerless score CSV per subject.
	Dir string
	// SubjectPattern extracts the subject ID from the filename stem via a
	// single capture group (plain stems and YYMMDD_CL-prefixed stems are
	// both covered by configuring the pattern).
	SubjectPattern *regexp.Regexp
}

// GroomingResult holds the per-subject grooming metrics.
type GroomingResult struct {
	Subject     string
	DurationSec float64
	Bouts       int
}

// ExtractGrooming reads every score sheet in the directory and aggregates
// total grooming duration and bout count per subject. Per-file failures are
// returned as warnings; an unreadable directory is fatal.
func ExtractGrooming(opts GroomingOptions) ([]GroomingResult, []error, error) {
	files, err := fileutil.ScanFiles(opts.Dir, fileutil.ScanOptions{Extensions: []string{".csv"}})
	if err != nil {
		return nil, nil, fmt.Errorf("scan grooming directory: %w", err)
	}

	var (
		results  []GroomingResult
		warnings []error
	)
	for _, path := range files {
		subject, err := SubjectFromName(fileutil.Stem(path), opts.SubjectPattern)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}

		intervals, err := readScoreSheet(path)
		if err != nil {
			warnings = append(warnings, &SubjectError{
				Category: ErrMalformedRecord,
				Subject:  subject,
				Path:     path,
				Err:      err,
			})
			continue
		}

		total, bouts := AggregateBouts(intervals)
		results = append(results, GroomingResult{
			Subject:     subject,
			DurationSec: total,
			Bouts:       bouts,
		})
	}
	return results, warnings, nil
}

// readScoreSheet parses a headerless grooming score CSV. The scoring software
// writes a label in column 0 and clock-formatted duration and timestamp in
// columns 1 and 2.
func readScoreSheet(path string) ([]Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open score sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var intervals []Interval
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++

		if len(record) < 3 {
			return nil, fmt.Errorf("%s line %d: expected at least 3 columns, got %d", path, line, len(record))
		}
		duration, err := ParseClockDuration(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		timestamp, err := ParseClockDuration(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		intervals = append(intervals, Interval{DurationSec: duration, TimestampSec: timestamp})
	}
	return intervals, nil
}
