package electrode

import (
	"fmt"
	"log"
	"math"

	"github.com/itohio/godose/pkg/config"
)

// Acceptable electrode drift compared to the ideal electrode.
const (
	maxSlopeDrift  = 0.2
	maxOffsetDrift = 30e-3 // V at pH 7
)

// Calibration holds the electrode parameters derived from a two point
// calibration. Immutable once constructed; an instance that failed
// validation is never returned.
type Calibration struct {
	slope  float64
	offset float64
}

// NewCalibration derives slope and offset from exactly two calibration
// points and validates them against acceptable drift. zeroRef is the analog
// front end offset voltage that an ideal electrode produces at pH 7.
func NewCalibration(cfg *config.CalibrationConfig, zeroRef float64) (*Calibration, error) {
	if len(cfg.Points) != 2 {
		return nil, fmt.Errorf("%w, got %d points", ErrCalibrationPoints, len(cfg.Points))
	}

	p1, p2 := cfg.Points[0], cfg.Points[1]

	slope, err := Slope(cfg.Temperature, p1.PH, p1.Voltage, p2.PH, p2.Voltage)
	if err != nil {
		return nil, err
	}

	offset, err := Offset(cfg.Temperature, slope, p1.PH, p1.Voltage)
	if err != nil {
		return nil, err
	}

	if err := validateSlope(slope); err != nil {
		return nil, err
	}

	vPH7 := offset - zeroRef
	if err := validateOffset(vPH7); err != nil {
		return nil, err
	}

	log.Printf("pH electrode status: slope %.2f, offset %.0f mV", slope, vPH7*1e3)

	return &Calibration{slope: slope, offset: offset}, nil
}

// validateSlope rejects a relative slope that drifted too far from ideal.
// The margin itself is still usable.
func validateSlope(slope float64) error {
	if math.Abs(slope-1) > maxSlopeDrift {
		return fmt.Errorf("%w: slope %.2f", ErrSlopeOutOfRange, slope)
	}
	return nil
}

// validateOffset rejects a pH 7 voltage that drifted too far from the zero
// reference.
func validateOffset(vPH7 float64) error {
	if math.Abs(vPH7) > maxOffsetDrift {
		return fmt.Errorf("%w: offset %.0f mV", ErrOffsetOutOfRange, vPH7*1e3)
	}
	return nil
}

// Slope returns the relative electrode slope (1 = ideal).
func (c *Calibration) Slope() float64 { return c.slope }

// Offset returns the electrode offset voltage.
func (c *Calibration) Offset() float64 { return c.offset }

// PH converts a measured voltage into a temperature compensated pH value.
func (c *Calibration) PH(temp, voltage float64) (float64, error) {
	return PH(temp, c.offset, c.slope, voltage)
}
