package geometry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legend-exp/hadesgeom/internal/config"
)

func TestShieldingTable(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		runKey string
		want   int
	}{
		{
			name: "default is table one",
			cfg:  config.Config{Detector: "V07302A", Measurement: "am_HS6_top_dlt"},
			want: 1,
		},
		{
			name: "second table detector",
			cfg:  config.Config{Detector: "V02160B", Measurement: "am_HS6_top_dlt"},
			want: 2,
		},
		{
			name:   "recabled run moves to table two",
			cfg:    config.Config{Detector: "V07302A", Measurement: "ba_HS4_top_dlt"},
			runKey: "run0002",
			want:   2,
		},
		{
			name:   "other runs of the recabled campaign stay",
			cfg:    config.Config{Detector: "V07302A", Measurement: "ba_HS4_top_dlt"},
			runKey: "run0001",
			want:   1,
		},
		{
			name: "explicit card wins over detector",
			cfg: config.Config{
				Detector:    "V02160B",
				Measurement: "am_HS6_top_dlt",
				DAQ:         config.DAQSettings{Flashcam: config.FlashcamSettings{CardInterface: "efb1"}},
			},
			want: 1,
		},
		{
			name: "explicit second card",
			cfg: config.Config{
				Detector:    "V07302A",
				Measurement: "am_HS6_top_dlt",
				DAQ:         config.DAQSettings{Flashcam: config.FlashcamSettings{CardInterface: "efb2"}},
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shieldingTable(&tt.cfg, tt.runKey)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShieldingTable_UnknownCard(t *testing.T) {
	cfg := config.Config{
		Detector:    "V07302A",
		Measurement: "am_HS6_top_dlt",
		DAQ:         config.DAQSettings{Flashcam: config.FlashcamSettings{CardInterface: "efb9"}},
	}
	_, err := shieldingTable(&cfg, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrUnknownCard))
	assert.Contains(t, err.Error(), "efb9")
}
