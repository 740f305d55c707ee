// Package hw adapts the periph.io host drivers to the narrow capability
// interfaces consumed by the sensing and actuation packages, so the rest of
// the system never touches hardware libraries directly.
package hw

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/itohio/godose/pkg/adc"
	"github.com/itohio/godose/pkg/pump"
)

// Ensure the adapters implement the capability interfaces.
var (
	_ adc.BusReader = (*I2C)(nil)
	_ pump.GPIO     = (*Lines)(nil)
)

// Init loads the host drivers. Must be called once before opening buses or
// pins.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}
	return nil
}

// I2C is an i2c bus with a bound device address.
type I2C struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// OpenI2C opens the named bus ("1" on a Raspberry Pi) and binds the device
// address.
func OpenI2C(busName string, addr uint16) (*I2C, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	return &I2C{bus: bus, dev: i2c.Dev{Bus: bus, Addr: addr}}, nil
}

// ReadBlock reads n bytes starting at the given register.
func (b *I2C) ReadBlock(reg byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := b.dev.Tx([]byte{reg}, buf); err != nil {
		return nil, fmt.Errorf("i2c read: %w", err)
	}
	return buf, nil
}

// Close closes the underlying bus.
func (b *I2C) Close() error {
	return b.bus.Close()
}

// Lines drives a set of GPIO output lines addressed by BCM pin number.
type Lines struct {
	pins map[int]gpio.PinIO
}

// OpenLines resolves the given pins and configures them as outputs, low.
func OpenLines(pins ...int) (*Lines, error) {
	l := &Lines{pins: make(map[int]gpio.PinIO, len(pins))}
	for _, n := range pins {
		p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
		if p == nil {
			return nil, fmt.Errorf("gpio pin %d not found", n)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("gpio pin %d: %w", n, err)
		}
		l.pins[n] = p
	}
	return l, nil
}

// Set drives the line high or low.
func (l *Lines) Set(pin int, high bool) error {
	p, ok := l.pins[pin]
	if !ok {
		return fmt.Errorf("gpio pin %d not configured", pin)
	}
	return p.Out(gpio.Level(high))
}

// Close returns every configured line to the low state.
func (l *Lines) Close() error {
	var first error
	for n, p := range l.pins {
		if err := p.Out(gpio.Low); err != nil && first == nil {
			first = fmt.Errorf("gpio pin %d: %w", n, err)
		}
	}
	return first
}
