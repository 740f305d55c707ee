// Package temperature supplies the solution temperature consumed by the pH
// meter and the control loop.
package temperature

// Sensor provides one temperature reading in degrees Celsius per call.
type Sensor interface {
	Read() (float64, error)
}

// Ensure implementations satisfy Sensor.
var (
	_ Sensor = (*Serial)(nil)
	_ Sensor = Fixed(0)
)

// Fixed is a Sensor that always returns the same temperature. Used in tests
// and mock runs.
type Fixed float64

func (f Fixed) Read() (float64, error) { return float64(f), nil }
