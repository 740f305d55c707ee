// Package pump drives a stepper motor peristaltic pump through an A4988
// class driver on two GPIO lines.
package pump

import (
	"fmt"
	"math"
	"time"

	"github.com/itohio/godose/pkg/config"
)

// GPIO sets the state of a single digital output line.
type GPIO interface {
	Set(pin int, high bool) error
}

// Pump converts requested volumes into timed step pulse trains. All calls
// are blocking and strictly sequential; a dispense runs to completion or
// fails, it cannot be cancelled mid flight. Timing is software delay based,
// jitter within the motor's tolerance margin is accepted.
type Pump struct {
	cfg  *config.PumpConfig
	gpio GPIO

	// delay is time.Sleep in production; tests substitute a recorder.
	delay func(time.Duration)
}

// New creates a Pump and drives both lines to their known safe low state.
func New(cfg *config.PumpConfig, gpio GPIO) (*Pump, error) {
	p := &Pump{cfg: cfg, gpio: gpio, delay: time.Sleep}

	if err := gpio.Set(cfg.SleepPin, false); err != nil {
		return nil, fmt.Errorf("pump init: %w", err)
	}
	if err := gpio.Set(cfg.StepPin, false); err != nil {
		return nil, fmt.Errorf("pump init: %w", err)
	}

	return p, nil
}

// MaxStepFrequency returns the highest safe step rate in Hz. Pulsing faster
// than the motor's rated speed causes missed steps and stalls.
func (p *Pump) MaxStepFrequency() float64 {
	maxRotationFrequency := p.cfg.MaxRPM / 60
	stepsPerRotation := 360 / p.cfg.StepAngle * float64(p.cfg.Microsteps)
	return maxRotationFrequency * stepsPerRotation
}

// Step wakes the driver and emits count step pulses at the maximum safe
// rate. The driver is put back to sleep on every exit path. A zero count
// still cycles the driver through wake and sleep.
func (p *Pump) Step(count int) (err error) {
	if count < 0 {
		return fmt.Errorf("negative step count %d", count)
	}

	if err := p.gpio.Set(p.cfg.SleepPin, true); err != nil {
		return fmt.Errorf("wake driver: %w", err)
	}
	defer func() {
		if serr := p.gpio.Set(p.cfg.SleepPin, false); serr != nil && err == nil {
			err = fmt.Errorf("sleep driver: %w", serr)
		}
	}()

	// The driver needs to settle after leaving sleep mode.
	p.delay(p.cfg.WakeUpTime)

	half := p.halfPeriod()
	for i := 0; i < count; i++ {
		if err := p.gpio.Set(p.cfg.StepPin, true); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		p.delay(half)
		if err := p.gpio.Set(p.cfg.StepPin, false); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		p.delay(half)
	}

	return nil
}

// Dispense pumps the requested volume in litres. Fractional step counts
// round to the nearest whole step. Dispense(0) is a legal no-op that still
// wakes and immediately sleeps the driver, same as Step(0).
func (p *Pump) Dispense(volume float64) error {
	if volume < 0 {
		return fmt.Errorf("negative volume %g", volume)
	}
	return p.Step(int(math.Round(volume * p.cfg.StepsPerLitre)))
}

// Close returns both lines to their safe low state regardless of the state
// the pump was left in.
func (p *Pump) Close() error {
	stepErr := p.gpio.Set(p.cfg.StepPin, false)
	sleepErr := p.gpio.Set(p.cfg.SleepPin, false)
	if stepErr != nil {
		return fmt.Errorf("release step line: %w", stepErr)
	}
	if sleepErr != nil {
		return fmt.Errorf("release sleep line: %w", sleepErr)
	}
	return nil
}

// halfPeriod is the hold time of each high and low phase of a step pulse.
func (p *Pump) halfPeriod() time.Duration {
	return time.Duration(0.5 / p.MaxStepFrequency() * float64(time.Second))
}
