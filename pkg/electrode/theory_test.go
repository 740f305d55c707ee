package electrode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdealSensitivity(t *testing.T) {
	tests := []struct {
		name    string
		temp    float64
		want    float64
		wantErr bool
	}{
		{
			name: "room temperature",
			temp: 25,
			want: 0.05916, // Textbook Nernst slope at 25C
		},
		{
			name: "lower boundary",
			temp: 0,
			want: 0.05420,
		},
		{
			name: "upper boundary",
			temp: 100,
			want: 0.07404,
		},
		{
			name:    "just below zero",
			temp:    -0.001,
			wantErr: true,
		},
		{
			name:    "just above hundred",
			temp:    100.001,
			wantErr: true,
		},
		{
			name:    "way out of range",
			temp:    -40,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IdealSensitivity(tt.temp)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrTemperatureOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestIdealSensitivity_Monotonic(t *testing.T) {
	prev, err := IdealSensitivity(0)
	require.NoError(t, err)

	for temp := 1.0; temp <= 100; temp++ {
		got, err := IdealSensitivity(temp)
		require.NoError(t, err)
		assert.Greater(t, got, prev, "sensitivity must increase with temperature, temp %.0f", temp)
		prev = got
	}
}

func TestSlope_IdealElectrode(t *testing.T) {
	ideal, err := IdealSensitivity(25)
	require.NoError(t, err)

	// Synthetic points of a perfect electrode: pH 4 sits three ideal slopes
	// above pH 7.
	v1 := 3 * ideal

	slope, err := Slope(25, 4, v1, 7, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, slope, 1e-12)
}

func TestSlope_TemperatureOutOfRange(t *testing.T) {
	_, err := Slope(-5, 4, 0.177, 7, 0)
	assert.ErrorIs(t, err, ErrTemperatureOutOfRange)
}

func TestOffsetPH_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		temp    float64
		slope   float64
		ph      float64
		voltage float64
	}{
		{
			name:    "ideal electrode at pH 4",
			temp:    25,
			slope:   1.0,
			ph:      4,
			voltage: 0.177,
		},
		{
			name:    "worn electrode at pH 9",
			temp:    18.5,
			slope:   0.85,
			ph:      9,
			voltage: 1.1,
		},
		{
			name:    "steep electrode at pH 7",
			temp:    60,
			slope:   1.15,
			ph:      7,
			voltage: 1.251,
		},
		{
			name:    "negative voltage",
			temp:    2,
			slope:   0.95,
			ph:      11.3,
			voltage: -0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, err := Offset(tt.temp, tt.slope, tt.ph, tt.voltage)
			require.NoError(t, err)

			got, err := PH(tt.temp, offset, tt.slope, tt.voltage)
			require.NoError(t, err)
			assert.InDelta(t, tt.ph, got, 1e-9)
		})
	}
}

func TestPH_TemperatureOutOfRange(t *testing.T) {
	_, err := PH(101, 1.251, 1.0, 1.3)
	assert.ErrorIs(t, err, ErrTemperatureOutOfRange)

	_, err = Offset(101, 1.0, 7, 1.251)
	assert.ErrorIs(t, err, ErrTemperatureOutOfRange)
}
