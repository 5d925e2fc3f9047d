package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio_Sentinel(t *testing.T) {
	assert.Equal(t, float64(-1), RatioNotApplicable().Sentinel())
	assert.Equal(t, float64(99), RatioInfinite().Sentinel())
	assert.Equal(t, 3.5, RatioValue(3.5).Sentinel())
}

func TestRatio_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   Ratio
		wire string
	}{
		{"not applicable", RatioNotApplicable(), "-1"},
		{"infinite", RatioInfinite(), "99"},
		{"plain value", RatioValue(3.5), "3.5"},
		{"zero", RatioValue(0), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wire, string(raw))

			var out Ratio
			require.NoError(t, json.Unmarshal(raw, &out))
			assert.Equal(t, tt.in, out)
		})
	}
}
