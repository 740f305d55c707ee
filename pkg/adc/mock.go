package adc

import (
	"fmt"
	"math"

	"github.com/itohio/godose/pkg/config"
)

// Ensure MockBus implements BusReader.
var _ BusReader = (*MockBus)(nil)

// MockBus simulates the analog front end for testing and development
// without hardware. It produces readings around a configured electrode
// voltage with deterministic noise.
type MockBus struct {
	cfg  *config.MockConfig
	vref float64
	n    uint64
}

// NewMockBus creates a new mocked front end. vref must match the sampler's
// reference voltage so simulated voltages convert back correctly.
func NewMockBus(cfg *config.MockConfig, vref float64) *MockBus {
	if cfg == nil {
		cfg = &config.MockConfig{
			Voltage:     1.224,
			NoiseLevel:  0.003,
			Temperature: 21.2,
		}
	}
	return &MockBus{cfg: cfg, vref: vref}
}

// ReadBlock returns one simulated conversion as two big endian bytes.
func (m *MockBus) ReadBlock(reg byte, n int) ([]byte, error) {
	if n != 2 {
		return nil, fmt.Errorf("mock bus: unsupported read length %d", n)
	}

	m.n++
	noise := (math.Sin(float64(m.n)*0.7) + math.Cos(float64(m.n)*1.3)) *
		m.cfg.NoiseLevel * 0.5

	v := m.cfg.Voltage + noise
	raw := v / m.vref * (1 << adcBits)
	if raw < 0 {
		raw = 0
	} else if raw > (1<<adcBits)-1 {
		raw = (1 << adcBits) - 1
	}

	value := uint16(raw)
	return []byte{byte(value >> 8), byte(value)}, nil
}
