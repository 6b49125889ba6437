package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionDB_Measurement(t *testing.T) {
	db := DefaultPositionDB()

	m, err := db.Measurement("V07302A", "c1", "am_HS1_top_dlt")
	require.NoError(t, err)
	assert.Equal(t, []string{"run0001", "run0002", "run0003"}, m.Runs())

	_, err = db.Measurement("V07302A", "c1", "cs_HS9_top_dlt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMeasurementPositions_ByRun(t *testing.T) {
	db := DefaultPositionDB()
	m, err := db.Measurement("V07302A", "c1", "am_HS1_top_dlt")
	require.NoError(t, err)

	pos, run, err := m.ByRun(1)
	require.NoError(t, err)
	assert.Equal(t, "run0001", run)
	assert.Equal(t, SourcePosition{PhiInDeg: 0, RInMM: 0, ZInMM: 38}, pos)

	_, _, err = m.ByRun(42)
	require.Error(t, err)
	var lookupErr *RunLookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "run0042", lookupErr.Run)
	assert.Len(t, lookupErr.Available, 3)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "full list of available runs")
	assert.Contains(t, err.Error(), "run0003: [0, 86, 3]")
}

func TestMeasurementPositions_ByPosition(t *testing.T) {
	db := DefaultPositionDB()
	m, err := db.Measurement("V07302A", "c1", "th_HS2_lat_psa")
	require.NoError(t, err)

	t.Run("exact match returns its run", func(t *testing.T) {
		pos, run, err := m.ByPosition(SourcePosition{PhiInDeg: 270, RInMM: 30, ZInMM: 60})
		require.NoError(t, err)
		assert.Equal(t, "run0003", run)
		assert.Equal(t, 270.0, pos.PhiInDeg)
	})

	t.Run("first match wins", func(t *testing.T) {
		_, run, err := m.ByPosition(SourcePosition{PhiInDeg: 0, RInMM: 30, ZInMM: 60})
		require.NoError(t, err)
		assert.Equal(t, "run0001", run)
	})

	t.Run("phi tier", func(t *testing.T) {
		_, _, err := m.ByPosition(SourcePosition{PhiInDeg: 45, RInMM: 30, ZInMM: 60})
		var posErr *PositionLookupError
		require.True(t, errors.As(err, &posErr))
		assert.Equal(t, "phi", posErr.Tier)
		assert.ElementsMatch(t, []float64{0, 270}, posErr.Available)
		assert.Contains(t, err.Error(), "available phi positions")
	})

	t.Run("r tier", func(t *testing.T) {
		_, _, err := m.ByPosition(SourcePosition{PhiInDeg: 0, RInMM: 55, ZInMM: 60})
		var posErr *PositionLookupError
		require.True(t, errors.As(err, &posErr))
		assert.Equal(t, "r", posErr.Tier)
		assert.Equal(t, []float64{30}, posErr.Available)
	})

	t.Run("z tier", func(t *testing.T) {
		_, _, err := m.ByPosition(SourcePosition{PhiInDeg: 0, RInMM: 30, ZInMM: 99})
		var posErr *PositionLookupError
		require.True(t, errors.As(err, &posErr))
		assert.Equal(t, "z", posErr.Tier)
		assert.ElementsMatch(t, []float64{60, 80}, posErr.Available)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
