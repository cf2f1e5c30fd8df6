package assay

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/harrison/mousemetrics/internal/fileutil"
	"github.com/harrison/mousemetrics/internal/geometry"
	"github.com/harrison/mousemetrics/internal/trajectory"
)

// OpenFieldOptions configures the open-field extraction.
type OpenFieldOptions struct {
	// Dir contains one tracking CSV per subject.
	Dir string
	// SubjectPattern extracts the subject ID from the filename stem via a
	// single capture group (e.g. ^(.+)_LocationOutput$).
	SubjectPattern *regexp.Regexp
	// ExpectedFrames is the canonical frame count of a full recording,
	// used as the occupancy denominator.
	ExpectedFrames int
	// PxToMeters converts pixel distance to meters.
	PxToMeters float64
}

// OpenFieldResult holds the per-subject open-field metrics.
type OpenFieldResult struct {
	Subject     string
	CenterPct   float64
	DistanceM   float64
	FrameCount  int
	DistancePxT float64
}

// ExtractOpenField reads every tracking CSV in the directory, fits the arena
// circle over the pooled coordinates of all subjects, and derives per-subject
// center occupancy and total distance.
//
// The arena is estimated from the whole cohort because any single subject may
// never visit the arena edge. Per-file failures are returned as warnings and
// skip that subject; an unreadable directory or an empty cohort is fatal.
func ExtractOpenField(opts OpenFieldOptions) ([]OpenFieldResult, geometry.Circle, []error, error) {
	files, err := fileutil.ScanFiles(opts.Dir, fileutil.ScanOptions{Extensions: []string{".csv"}})
	if err != nil {
		return nil, geometry.Circle{}, nil, fmt.Errorf("scan open-field directory: %w", err)
	}

	type loaded struct {
		subject string
		traj    *trajectory.Trajectory
	}
	var (
		cohort   []loaded
		warnings []error
		pooled   []geometry.Point
	)

	for _, path := range files {
		subject, err := SubjectFromName(fileutil.Stem(path), opts.SubjectPattern)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}

		traj, err := trajectory.ReadTrackingCSV(path)
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

		cohort = append(cohort, loaded{subject: subject, traj: traj})
		pooled = append(pooled, traj.Points()...)
	}

	arena, err := geometry.EnclosingCircle(pooled)
	if err != nil {
		return nil, geometry.Circle{}, warnings, fmt.Errorf("fit arena circle: no usable open-field trajectories in %s: %w", opts.Dir, err)
	}

	results := make([]OpenFieldResult, 0, len(cohort))
	for _, l := range cohort {
		distPx := l.traj.TotalDistancePx()
		results = append(results, OpenFieldResult{
			Subject:     l.subject,
			CenterPct:   l.traj.CenterOccupancyPercent(arena, opts.ExpectedFrames),
			DistanceM:   distPx * opts.PxToMeters,
			FrameCount:  len(l.traj.Frames),
			DistancePxT: distPx,
		})
	}
	return results, arena, warnings, nil
}
