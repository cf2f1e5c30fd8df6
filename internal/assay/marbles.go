package assay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column positions in the marble-burying workbook. The sheet has a header row;
// columns are located by name when possible, with these positions as the
// fallback for sheets saved without the standard headers.
const (
	marbleSubjectCol = 0
	marbleBuriedCol  = 3
)

// MarbleResult holds one subject's marble-burying count.
type MarbleResult struct {
	Subject string
	Buried  int
}

// ReadMarbleWorkbook reads the first sheet of the marble-burying Excel
// workbook. Each data row carries the subject ID and the number of marbles
// buried; blank rows are skipped and a non-numeric count is a malformed
// record for that row.
func ReadMarbleWorkbook(path string) ([]MarbleResult, []error, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open marble workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: sheet %s is empty", path, sheet)
	}

	subjectCol, buriedCol := marbleSubjectCol, marbleBuriedCol
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case "Subject":
			subjectCol = i
		case "Marbles buried":
			buriedCol = i
		}
	}

	var (
		results  []MarbleResult
		warnings []error
	)
	for rowNum, row := range rows[1:] {
		subject := cellAt(row, subjectCol)
		count := cellAt(row, buriedCol)
		if subject == "" && count == "" {
			continue
		}
		if subject == "" {
			warnings = append(warnings, &SubjectError{
				Category: ErrMalformedRecord,
				Path:     path,
				Err:      fmt.Errorf("row %d: count %q has no subject", rowNum+2, count),
			})
			continue
		}

		buried, err := parseMarbleCount(count)
		if err != nil {
			warnings = append(warnings, &SubjectError{
				Category: ErrMalformedRecord,
				Subject:  subject,
				Path:     path,
				Err:      fmt.Errorf("row %d: %w", rowNum+2, err),
			})
			continue
		}
		results = append(results, MarbleResult{Subject: subject, Buried: buried})
	}
	return results, warnings, nil
}

// cellAt returns the trimmed cell value, tolerating short rows (excelize
// truncates trailing empty cells).
func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// parseMarbleCount parses a marble count cell. Counts are whole numbers but
// spreadsheets occasionally store them as floats ("12.0").
func parseMarbleCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative marble count %d", n)
		}
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid marble count %q", s)
	}
	if v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("invalid marble count %q", s)
	}
	return int(v), nil
}
