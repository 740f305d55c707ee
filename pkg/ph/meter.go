// Package ph composes the analog sampler and the electrode calibration into
// a complete temperature compensated pH meter.
package ph

import (
	"github.com/itohio/godose/pkg/adc"
	"github.com/itohio/godose/pkg/electrode"
)

// Reading is a single noise filtered measurement with uncertainty estimates.
type Reading struct {
	Voltage    float64 // Mean electrode voltage (V)
	VoltageDev float64 // Standard deviation of the voltage (V)
	PH         float64
	PHDev      float64
}

// Meter measures solution acidity. Every call performs a fresh sample batch
// acquisition; nothing is cached between calls.
type Meter struct {
	sampler *adc.Sampler
	cal     *electrode.Calibration
}

// New creates a Meter from a sampler and a validated calibration.
func New(sampler *adc.Sampler, cal *electrode.Calibration) *Meter {
	return &Meter{sampler: sampler, cal: cal}
}

// PH acquires one sample batch and returns the pH of the solution at the
// given temperature.
func (m *Meter) PH(temp float64) (float64, error) {
	v, err := m.sampler.Voltage()
	if err != nil {
		return 0, err
	}
	return m.cal.PH(temp, v)
}

// Read acquires one sample batch and returns the measurement together with
// voltage and pH standard deviations. The pH deviation propagates the
// voltage noise through the local electrode sensitivity.
func (m *Meter) Read(temp float64) (Reading, error) {
	stats, err := m.sampler.Stats()
	if err != nil {
		return Reading{}, err
	}

	value, err := m.cal.PH(temp, stats.Mean)
	if err != nil {
		return Reading{}, err
	}

	ideal, err := electrode.IdealSensitivity(temp)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		Voltage:    stats.Mean,
		VoltageDev: stats.StdDev,
		PH:         value,
		PHDev:      stats.StdDev / ideal,
	}, nil
}
