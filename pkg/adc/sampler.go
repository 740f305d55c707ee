// Package adc acquires noise filtered voltage readings from the MCP3221
// analog front end the pH electrode is wired to.
package adc

import (
	"fmt"
	"math"

	"github.com/itohio/godose/pkg/config"
)

const (
	// adcBits is the front end resolution.
	adcBits = 12

	// filterSamples is the oversampling batch size used for noise filtering.
	// Statistics are always computed over a full batch, never a partial one.
	filterSamples = 256
)

// BusReader reads a block of bytes from a device register. The device
// address is bound when the bus is opened, so a simulated bus can substitute
// for real hardware.
type BusReader interface {
	ReadBlock(reg byte, n int) ([]byte, error)
}

// Stats holds the mean and population standard deviation of one sample
// batch, converted to volts.
type Stats struct {
	Mean   float64
	StdDev float64
}

// Sampler reads the analog front end and reduces noise by oversampling.
type Sampler struct {
	cfg *config.ADCConfig
	bus BusReader
}

// New creates a Sampler on top of the given bus.
func New(cfg *config.ADCConfig, bus BusReader) *Sampler {
	return &Sampler{cfg: cfg, bus: bus}
}

// ReadRaw performs a single conversion and returns the raw 12 bit value.
// The front end sends two bytes, big endian, upper four bits zero.
func (s *Sampler) ReadRaw() (uint16, error) {
	buf, err := s.bus.ReadBlock(0x00, 2)
	if err != nil {
		return 0, fmt.Errorf("adc read failed: %w", err)
	}
	if len(buf) != 2 {
		return 0, fmt.Errorf("adc read returned %d bytes, want 2", len(buf))
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// ToVoltage converts a raw reading to volts. Mean and standard deviation
// scale the same way, so both go through this conversion.
func (s *Sampler) ToVoltage(raw float64) float64 {
	return raw * s.cfg.VRef / (1 << adcBits)
}

// Voltage returns the mean voltage over one full sample batch.
func (s *Sampler) Voltage() (float64, error) {
	values, err := s.sampleBatch()
	if err != nil {
		return 0, err
	}
	return s.ToVoltage(mean(values)), nil
}

// Stats returns mean and population standard deviation over one full sample
// batch, in volts.
func (s *Sampler) Stats() (Stats, error) {
	values, err := s.sampleBatch()
	if err != nil {
		return Stats{}, err
	}
	m := mean(values)
	return Stats{
		Mean:   s.ToVoltage(m),
		StdDev: s.ToVoltage(stdDev(values, m)),
	}, nil
}

// sampleBatch performs filterSamples sequential blocking reads.
func (s *Sampler) sampleBatch() ([]uint16, error) {
	values := make([]uint16, filterSamples)
	for i := range values {
		v, err := s.ReadRaw()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func mean(values []uint16) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

func stdDev(values []uint16, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
