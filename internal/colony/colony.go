// Package colony loads the mouse-colony database exports and the blinded
// cage-ID sheet, and resolves experimental subject IDs to genotype and sex.
//
// Subjects are scored blind: raw-data files name subjects by blinded cage ID
// plus ear notch (e.g. "Cage4_Rn"). The cage-ID sheet maps each blinded ID
// back to a mouse line and cage tag, which together with the ear notch
// identify a unique colony record.
package colony

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harrison/mousemetrics/internal/assay"
)

// Record is one animal in the colony database.
type Record struct {
	MouseLine string // e.g. "Syt3"
	CageTag   string // cage tag including sex suffix, e.g. "123F"
	EarNotch  string // e.g. "Rn"
	Sex       string // single letter, e.g. "F"
	Genotype  string // e.g. "-/-"
}

// GenotypeLabel is the reporting label for the record: mouse line
// concatenated with genotype, e.g. "Syt3-/-".
func (r Record) GenotypeLabel() string {
	return r.MouseLine + r.Genotype
}

// Assignment maps a blinded cage ID to its unblinded identity.
type Assignment struct {
	ID        string // blinded ID, e.g. "Cage4"
	MouseLine string
	CageTag   string
}

// requiredColumns are the colony-export columns the joiner depends on.
var requiredColumns = []string{"Mouseline", "Cage Tag", "Ear notch", "Sex", "Genotype"}

// LoadRecords reads one or more colony database CSV exports and concatenates
// their rows. Each export has a banner line above the header row; rows with
// any required field empty are dropped, and the sex label is normalized to
// its first letter (the export appends a per-cage number).
func LoadRecords(paths ...string) ([]Record, error) {
	var records []Record
	for _, path := range paths {
		recs, err := loadRecordFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

func loadRecordFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open colony export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Banner line.
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("read banner of %s: %w", path, err)
	}
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rec := Record{
			MouseLine: field(row, cols["Mouseline"]),
			CageTag:   field(row, cols["Cage Tag"]),
			EarNotch:  field(row, cols["Ear notch"]),
			Sex:       field(row, cols["Sex"]),
			Genotype:  field(row, cols["Genotype"]),
		}
		if rec.MouseLine == "" || rec.CageTag == "" || rec.EarNotch == "" || rec.Sex == "" || rec.Genotype == "" {
			continue
		}
		rec.Sex = rec.Sex[:1]
		records = append(records, rec)
	}
	return records, nil
}

// LoadAssignments reads the blinded cage-ID sheet. Each row pairs a cage
// entry "<line>_<cage>_<sex>" with its blinded ID; the colony export's cage
// tag is the cage number with the sex letter appended.
func LoadAssignments(path string) ([]Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cage-ID sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	cageCol, idCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Cage":
			cageCol = i
		case "ID":
			idCol = i
		}
	}
	if cageCol < 0 || idCol < 0 {
		return nil, fmt.Errorf("%s: missing Cage/ID columns in header %v", path, header)
	}

	var assignments []Assignment
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++

		cage := field(row, cageCol)
		id := field(row, idCol)
		if cage == "" && id == "" {
			continue
		}
		parts := strings.Split(cage, "_")
		if len(parts) != 3 || id == "" {
			return nil, fmt.Errorf("%s line %d: expected cage entry <line>_<cage>_<sex>, got %q", path, line, cage)
		}
		assignments = append(assignments, Assignment{
			ID:        id,
			MouseLine: parts[0],
			CageTag:   parts[1] + parts[2],
		})
	}
	return assignments, nil
}

// Database joins colony records with blinded cage assignments for subject
// resolution.
type Database struct {
	byAssignment map[string]Assignment
	records      []Record
}

// NewDatabase builds a lookup database from colony records and blinded
// assignments.
func NewDatabase(records []Record, assignments []Assignment) *Database {
	db := &Database{
		byAssignment: make(map[string]Assignment, len(assignments)),
		records:      records,
	}
	for _, a := range assignments {
		db.byAssignment[a.ID] = a
	}
	return db
}

// Resolve maps a subject ID of the form "<blindedCageID>_<earNotch>" to its
// colony record. Failure to resolve is an UnresolvedSubject error; the caller
// leaves that subject's genotype fields at their defaults.
func (db *Database) Resolve(subject string) (Record, error) {
	idx := strings.LastIndex(subject, "_")
	if idx <= 0 || idx == len(subject)-1 {
		return Record{}, &assay.SubjectError{
			Category: assay.ErrUnresolvedSubject,
			Subject:  subject,
			Err:      fmt.Errorf("subject ID is not of the form <cageID>_<notch>"),
		}
	}
	cageID, notch := subject[:idx], subject[idx+1:]

	a, ok := db.byAssignment[cageID]
	if !ok {
		return Record{}, &assay.SubjectError{
			Category: assay.ErrUnresolvedSubject,
			Subject:  subject,
			Err:      fmt.Errorf("blinded cage ID %q not in cage-ID sheet", cageID),
		}
	}

	for _, rec := range db.records {
		if rec.MouseLine == a.MouseLine && rec.CageTag == a.CageTag && rec.EarNotch == notch {
			return rec, nil
		}
	}
	return Record{}, &assay.SubjectError{
		Category: assay.ErrUnresolvedSubject,
		Subject:  subject,
		Err:      fmt.Errorf("no colony record for line %s cage %s notch %s", a.MouseLine, a.CageTag, notch),
	}
}

// Size returns the number of colony records loaded.
func (db *Database) Size() int {
	return len(db.records)
}

// field returns the trimmed cell at col, tolerating short rows.
func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
