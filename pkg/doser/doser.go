// Package doser implements the proportional nutrient dosing policy of the
// control loop. Nutrient solution is acidic, so pumping it lowers the pH of
// the tank.
package doser

import "github.com/itohio/godose/pkg/config"

// Doser decides how much nutrient solution to pump for a measured pH.
// Stateless; the decision depends only on the configuration and the
// measurement.
type Doser struct {
	cfg *config.ControllerConfig
}

// New creates a Doser with the given policy parameters.
func New(cfg *config.ControllerConfig) *Doser {
	return &Doser{cfg: cfg}
}

// Dose returns the nutrient volume in litres to pump for the measured pH.
// Returns 0 when the pH is at or below target, or when the computed dose is
// smaller than the pump can meter reliably.
func (d *Doser) Dose(ph float64) float64 {
	excess := ph - d.cfg.DesiredPH
	if excess <= 0 {
		return 0
	}

	dose := excess * d.cfg.ProportionalK * d.cfg.SolutionVolume * d.cfg.NutrientsPerPH
	if dose < d.cfg.MinDose {
		return 0
	}

	return dose
}
