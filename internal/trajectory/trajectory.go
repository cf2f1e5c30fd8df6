// Package trajectory provides the per-frame position types and scalar metrics
// derived from tracking-software output (ezTrack CSV, idTracker TSV).
package trajectory

import (
	"math"

	"github.com/harrison/mousemetrics/internal/geometry"
)

// Frame is a single video frame's tracked position. Missing marks frames where
// the tracker did not detect the subject (NaN or empty coordinates).
type Frame struct {
	Point   geometry.Point
	Missing bool
}

// Trajectory is the ordered per-frame position sequence for one recording.
// DistancePx carries the tracker's per-frame displacement column when the
// source provides one (ezTrack does, idTracker does not).
type Trajectory struct {
	Frames     []Frame
	DistancePx []float64
}

// Points returns the coordinates of all detected frames.
func (t *Trajectory) Points() []geometry.Point {
	pts := make([]geometry.Point, 0, len(t.Frames))
	for _, f := range t.Frames {
		if !f.Missing {
			pts = append(pts, f.Point)
		}
	}
	return pts
}

// DetectedCount returns the number of frames with a tracked position.
func (t *Trajectory) DetectedCount() int {
	n := 0
	for _, f := range t.Frames {
		if !f.Missing {
			n++
		}
	}
	return n
}

// TotalDistancePx sums the tracker's per-frame displacement column.
func (t *Trajectory) TotalDistancePx() float64 {
	sum := 0.0
	for _, d := range t.DistancePx {
		sum += d
	}
	return sum
}

// CenterOccupancyPercent returns the percentage of the canonical recording
// spent inside the concentric center zone of the arena. The center zone radius
// is arena.R / sqrt(3), which makes its area one third of the arena.
//
// The denominator is expectedFrames, the canonical frame count of a full
// recording, not the actual frame count: truncated or extended recordings are
// scored against the same fixed duration. Missing frames never count as
// inside but remain in the denominator.
func (t *Trajectory) CenterOccupancyPercent(arena geometry.Circle, expectedFrames int) float64 {
	centerR := arena.R / math.Sqrt(3)
	centerR2 := centerR * centerR

	inside := 0
	for _, f := range t.Frames {
		if f.Missing {
			continue
		}
		dx := f.Point.X - arena.X
		dy := f.Point.Y - arena.Y
		if dx*dx+dy*dy <= centerR2 {
			inside++
		}
	}
	return float64(inside) / float64(expectedFrames) * 100
}

// DetectedPercent returns the percentage of the canonical recording during
// which the subject was detected. For light-dark recordings the tracker only
// sees the lit chamber, so detection is equivalent to presence in the light.
func (t *Trajectory) DetectedPercent(expectedFrames int) float64 {
	return float64(t.DetectedCount()) / float64(expectedFrames) * 100
}

// TransitionCount counts changes in detection status between consecutive
// frames. The first frame has no predecessor and is never itself a
// transition. A detected→missing boundary and a missing→detected boundary
// each count once.
func (t *Trajectory) TransitionCount() int {
	count := 0
	for i := 1; i < len(t.Frames); i++ {
		if t.Frames[i].Missing != t.Frames[i-1].Missing {
			count++
		}
	}
	return count
}

// EndpointDisplacementPx returns the straight-line distance between the first
// and last detected positions, in pixels. Zero when fewer than two frames are
// detected.
func (t *Trajectory) EndpointDisplacementPx() float64 {
	first, last := -1, -1
	for i, f := range t.Frames {
		if f.Missing {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 || first == last {
		return 0
	}
	a := t.Frames[first].Point
	b := t.Frames[last].Point
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
