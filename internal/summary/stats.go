package summary

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MetricNames lists the numeric summary columns, in reporting order.
var MetricNames = []string{
	"OF % center",
	"OF distance",
	"LD % light",
	"LD distance",
	"LD transitions",
	"SG duration",
	"SG bouts",
	"Marbles",
}

// metricValue extracts the named metric from a row.
func metricValue(r Row, name string) float64 {
	switch name {
	case "OF % center":
		return r.OFCenterPct
	case "OF distance":
		return r.OFDistanceM
	case "LD % light":
		return r.LDLightPct
	case "LD distance":
		return r.LDDistanceM
	case "LD transitions":
		return float64(r.LDTransitions)
	case "SG duration":
		return r.SGDurationSec
	case "SG bouts":
		return float64(r.SGBouts)
	case "Marbles":
		return float64(r.Marbles)
	}
	return 0
}

// GroupStats holds per-genotype descriptive statistics for every numeric
// summary column.
type GroupStats struct {
	Genotype string // empty for subjects with no resolved genotype
	N        int
	Mean     map[string]float64
	StdDev   map[string]float64 // sample standard deviation; 0 for N=1
}

// GroupByGenotype computes mean and sample standard deviation of each metric
// per genotype group, sorted by genotype label. Subjects without a resolved
// genotype form their own group with an empty label.
func (t *Table) GroupByGenotype() []GroupStats {
	byGenotype := make(map[string][]Row)
	for _, row := range t.Rows() {
		byGenotype[row.Genotype] = append(byGenotype[row.Genotype], row)
	}

	labels := make([]string, 0, len(byGenotype))
	for label := range byGenotype {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	groups := make([]GroupStats, 0, len(labels))
	for _, label := range labels {
		rows := byGenotype[label]
		gs := GroupStats{
			Genotype: label,
			N:        len(rows),
			Mean:     make(map[string]float64, len(MetricNames)),
			StdDev:   make(map[string]float64, len(MetricNames)),
		}
		for _, name := range MetricNames {
			values := make([]float64, len(rows))
			for i, row := range rows {
				values[i] = metricValue(row, name)
			}
			gs.Mean[name] = stat.Mean(values, nil)
			if len(values) > 1 {
				gs.StdDev[name] = stat.StdDev(values, nil)
			}
		}
		groups = append(groups, gs)
	}
	return groups
}
