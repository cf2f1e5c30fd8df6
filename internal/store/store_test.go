package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/mousemetrics/internal/summary"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRows() []summary.Row {
	return []summary.Row{
		{
			Subject: "Cage1_Rn", OFCenterPct: 12.5, OFDistanceM: 30.2,
			LDLightPct: 40, LDDistanceM: 1.5, LDTransitions: 8,
			SGDurationSec: 45, SGBouts: 3, Marbles: 11,
			Genotype: "Syt3-/-", Sex: "F",
		},
		{Subject: "Cage2_Ln", Genotype: "Syt3+/+", Sex: "M"},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := newTestStore(t)

	runID, err := s.SaveRun("pilot cohort", sampleRows())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	got, err := s.GetRun(runID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Subject order.
	assert.Equal(t, "Cage1_Rn", got[0].Subject)
	assert.Equal(t, "Cage2_Ln", got[1].Subject)

	assert.InDelta(t, 12.5, got[0].OFCenterPct, 1e-9)
	assert.Equal(t, 8, got[0].LDTransitions)
	assert.Equal(t, 11, got[0].Marbles)
	assert.Equal(t, "Syt3-/-", got[0].Genotype)

	// Zero-valued row round-trips intact.
	assert.Zero(t, got[1].OFCenterPct)
	assert.Equal(t, "M", got[1].Sex)
}

func TestGetRunUnknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun("no-such-run")
	assert.Error(t, err)
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.SaveRun("first", sampleRows())
	require.NoError(t, err)
	id2, err := s.SaveRun("second", sampleRows()[:1])
	require.NoError(t, err)

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	ids := map[string]Run{}
	for _, r := range runs {
		ids[r.ID] = r
	}
	assert.Equal(t, 2, ids[id1].Subjects)
	assert.Equal(t, "first", ids[id1].Label)
	assert.Equal(t, 1, ids[id2].Subjects)
}

func TestDistinctRunIDs(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.SaveRun("", sampleRows())
	require.NoError(t, err)
	id2, err := s.SaveRun("", sampleRows())
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}
