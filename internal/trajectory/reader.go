package trajectory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadTrackingCSV reads an ezTrack location-output CSV. The file has a header
// row; the X, Y and Distance_px columns are located by name so extra analysis
// columns are tolerated.
func ReadTrackingCSV(path string) (*Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tracking csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	xCol, yCol, dCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "X":
			xCol = i
		case "Y":
			yCol = i
		case "Distance_px":
			dCol = i
		}
	}
	if xCol < 0 || yCol < 0 {
		return nil, fmt.Errorf("%s: missing X/Y columns in header %v", path, header)
	}

	traj := &Trajectory{}
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++

		frame, err := parseFrame(record, xCol, yCol)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		traj.Frames = append(traj.Frames, frame)

		if dCol >= 0 && dCol < len(record) {
			if d, ok := parseCoord(record[dCol]); ok {
				traj.DistancePx = append(traj.DistancePx, d)
			}
		}
	}
	return traj, nil
}

// ReadTrajectoryTSV reads an idTracker trajectories.txt file: tab-separated,
// one header row (X1, Y1, ProbId1, ...), NaN for undetected frames. Only the
// first two columns are used. maxFrames caps the number of data rows read
// (0 = unlimited), mirroring the canonical recording length.
func ReadTrajectoryTSV(path string, maxFrames int) (*Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trajectory tsv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	traj := &Trajectory{}
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

		// Skip the header row if present; idTracker writes column names.
		if line == 1 && isHeaderRow(record) {
			continue
		}

		frame, err := parseFrame(record, 0, 1)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		traj.Frames = append(traj.Frames, frame)

		if maxFrames > 0 && len(traj.Frames) >= maxFrames {
			break
		}
	}
	return traj, nil
}

// parseFrame extracts a Frame from a record using the given column indexes.
// NaN or empty coordinates mark the frame as missing; a value that is neither
// numeric nor NaN is a format error.
func parseFrame(record []string, xCol, yCol int) (Frame, error) {
	if xCol >= len(record) || yCol >= len(record) {
		return Frame{Missing: true}, nil
	}
	x, okX := parseCoord(record[xCol])
	y, okY := parseCoord(record[yCol])
	if !okX || !okY {
		if isMissingValue(record[xCol]) || isMissingValue(record[yCol]) {
			return Frame{Missing: true}, nil
		}
		return Frame{}, fmt.Errorf("bad coordinate pair %q,%q", record[xCol], record[yCol])
	}
	f := Frame{}
	f.Point.X = x
	f.Point.Y = y
	return f, nil
}

// parseCoord parses a coordinate field. ok is false for empty or NaN values.
func parseCoord(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isMissingValue reports whether a field encodes an undetected frame.
func isMissingValue(field string) bool {
	s := strings.TrimSpace(field)
	return s == "" || strings.EqualFold(s, "nan")
}

// isHeaderRow reports whether the first data row looks like column names
// rather than coordinates.
func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, ok := parseCoord(record[0])
	return !ok && !isMissingValue(record[0])
}
