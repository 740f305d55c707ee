// Package electrode models a glass pH electrode.
//
// Functions are derived from the Nernst equation
//
//	V = Voffset - slope * R * T * ln(10) / F * (pH - 7)
//
// where slope equals 1 for the ideal electrode.
package electrode

import (
	"errors"
	"fmt"
)

// Physical constants.
const (
	gasConst     = 8.3144  // J/(mol*K)
	faradayConst = 96485.0 // C/mol
	absZeroTemp  = -273.15 // C
	ln10         = 2.3026
)

var (
	// ErrTemperatureOutOfRange is returned for temperatures outside [0, 100] C.
	ErrTemperatureOutOfRange = errors.New("temperature is out of range")

	// ErrCalibrationPoints is returned when the calibration data does not
	// contain exactly two points.
	ErrCalibrationPoints = errors.New("only two point calibration is supported")

	// ErrSlopeOutOfRange is returned when the derived slope drifted too far
	// from the ideal electrode.
	ErrSlopeOutOfRange = errors.New("electrode slope is out of range, replace the electrode")

	// ErrOffsetOutOfRange is returned when the derived offset drifted too far
	// from the front end zero reference.
	ErrOffsetOutOfRange = errors.New("electrode offset is out of range, replace the electrode")
)

// IdealSensitivity returns the response slope of the ideal pH electrode at
// the given temperature, in V/pH.
func IdealSensitivity(temp float64) (float64, error) {
	if temp < 0 || temp > 100 {
		return 0, fmt.Errorf("%w: %.3f C", ErrTemperatureOutOfRange, temp)
	}
	return gasConst * (temp - absZeroTemp) * ln10 / faradayConst, nil
}

// Slope returns the relative slope of a real electrode derived from two
// calibration points. Equals 1 for the ideal electrode.
func Slope(temp, ph1, v1, ph2, v2 float64) (float64, error) {
	ideal, err := IdealSensitivity(temp)
	if err != nil {
		return 0, err
	}
	return (v1 - v2) / (ph2 - ph1) / ideal, nil
}

// Offset returns the electrode offset voltage derived from one calibration
// point and a known slope.
func Offset(temp, slope, ph, v float64) (float64, error) {
	ideal, err := IdealSensitivity(temp)
	if err != nil {
		return 0, err
	}
	return v + slope*ideal*(ph-7), nil
}

// PH converts a measured electrode voltage into a pH value. It is the exact
// algebraic inverse of Offset for the same temperature and slope.
func PH(temp, offset, slope, v float64) (float64, error) {
	ideal, err := IdealSensitivity(temp)
	if err != nil {
		return 0, err
	}
	return 7 + (offset-v)/(slope*ideal), nil
}
