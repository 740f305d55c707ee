package pump

import "fmt"

// Ensure MockGPIO implements GPIO.
var _ GPIO = (*MockGPIO)(nil)

// Transition records a single line state change.
type Transition struct {
	Pin  int
	High bool
}

// MockGPIO records line transitions in order for tests and mock runs. The
// core is single threaded, so no locking is needed.
type MockGPIO struct {
	Transitions []Transition

	// FailPins makes Set fail for the listed pins, for exercising error
	// paths.
	FailPins map[int]bool
}

// Set records the transition, or fails if the pin is marked as failing.
func (m *MockGPIO) Set(pin int, high bool) error {
	if m.FailPins[pin] {
		return fmt.Errorf("mock gpio: pin %d failed", pin)
	}
	m.Transitions = append(m.Transitions, Transition{Pin: pin, High: high})
	return nil
}

// Reset discards the recorded transitions. Long mock runs call this between
// cycles so the recording does not grow without bound.
func (m *MockGPIO) Reset() {
	m.Transitions = m.Transitions[:0]
}

// Pulses counts complete high/low cycles recorded on the given pin.
func (m *MockGPIO) Pulses(pin int) int {
	count := 0
	high := false
	for _, tr := range m.Transitions {
		if tr.Pin != pin {
			continue
		}
		if high && !tr.High {
			count++
		}
		high = tr.High
	}
	return count
}

// Level returns the last recorded state of the pin, low if never set.
func (m *MockGPIO) Level(pin int) bool {
	level := false
	for _, tr := range m.Transitions {
		if tr.Pin == pin {
			level = tr.High
		}
	}
	return level
}
