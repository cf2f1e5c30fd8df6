package assay

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/harrison/mousemetrics/internal/fileutil"
	"github.com/harrison/mousemetrics/internal/trajectory"
)

// trajectoryFilename is the fixed name the tracker writes into each subject's
// folder.
const trajectoryFilename = "trajectories.txt"

// skipFolders are tracker bookkeeping folders that sit alongside subject
// folders and must not be treated as subjects.
var skipFolders = []string{"segm", ".ipynb_checkpoints"}

// LightDarkOptions configures the light-dark extraction.
type LightDarkOptions struct {
	// Dir contains one folder per analyzed subject, each holding a
	// trajectories.txt.
	Dir string
	// NeverLeftDir optionally lists (as video files) subjects that never
	// entered the light chamber and were not run through the tracker;
	// their metrics stay zero but the subject is still reported.
	NeverLeftDir string
	// SubjectPattern extracts the subject ID from the folder name (or the
	// NeverLeftDir filename stem) via a single capture group.
	SubjectPattern *regexp.Regexp
	// ExpectedFrames is the canonical recording length in frames; it is
	// both the row cap when reading and the percentage denominator.
	ExpectedFrames int
	// PxToMeters converts pixel distance to meters (chamber perimeter in
	// meters divided by perimeter in pixels).
	PxToMeters float64
}

// LightDarkResult holds the per-subject light-dark metrics. The tracker only
// sees the lit chamber, so a detected frame means the subject was in the
// light.
type LightDarkResult struct {
	Subject     string
	LightPct    float64
	DistanceM   float64
	Transitions int
}

// ExtractLightDark walks the analyzed-subject folders and derives percent
// time in light, endpoint displacement in meters, and chamber transition
// count for each. Subjects from NeverLeftDir are appended with zero metrics.
// Per-subject failures are returned as warnings; an unreadable top-level
// directory is fatal.
func ExtractLightDark(opts LightDarkOptions) ([]LightDarkResult, []error, error) {
	folders, err := fileutil.ListSubdirs(opts.Dir, skipFolders)
	if err != nil {
		return nil, nil, fmt.Errorf("scan light-dark directory: %w", err)
	}

	var (
		results  []LightDarkResult
		warnings []error
	)
	for _, folder := range folders {
		subject, err := SubjectFromName(folder, opts.SubjectPattern)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}

		path := filepath.Join(opts.Dir, folder, trajectoryFilename)
		traj, err := trajectory.ReadTrajectoryTSV(path, opts.ExpectedFrames)
		if err != nil {
			category := ErrMalformedRecord
			if errors.Is(err, fs.ErrNotExist) {
				category = ErrMissingInput
			}
			warnings = append(warnings, &SubjectError{
				Category: category,
				Subject:  subject,
				Path:     path,
				Err:      err,
			})
			continue
		}

		results = append(results, LightDarkResult{
			Subject:     subject,
			LightPct:    traj.DetectedPercent(opts.ExpectedFrames),
			DistanceM:   traj.EndpointDisplacementPx() * opts.PxToMeters,
			Transitions: traj.TransitionCount(),
		})
	}

	if opts.NeverLeftDir != "" {
		never, nlWarnings, err := neverLeftSubjects(opts.NeverLeftDir, opts.SubjectPattern)
		if err != nil {
			return nil, warnings, err
		}
		warnings = append(warnings, nlWarnings...)
		for _, subject := range never {
			results = append(results, LightDarkResult{Subject: subject})
		}
	}

	return results, warnings, nil
}

// neverLeftSubjects lists the subject IDs recorded in the never-left-dark
// directory. Filenames are whatever the videos were called, so only the stem
// is matched against the subject pattern.
func neverLeftSubjects(dir string, pattern *regexp.Regexp) ([]string, []error, error) {
	files, err := fileutil.ScanFiles(dir, fileutil.ScanOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("scan never-left-dark directory: %w", err)
	}

	var (
		subjects []string
		warnings []error
	)
	for _, path := range files {
		subject, err := SubjectFromName(fileutil.Stem(path), pattern)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		subjects = append(subjects, subject)
	}
	return subjects, warnings, nil
}
