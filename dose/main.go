package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/itohio/godose/pkg/adc"
	"github.com/itohio/godose/pkg/config"
	"github.com/itohio/godose/pkg/doser"
	"github.com/itohio/godose/pkg/electrode"
	"github.com/itohio/godose/pkg/hw"
	"github.com/itohio/godose/pkg/ph"
	"github.com/itohio/godose/pkg/pump"
	"github.com/itohio/godose/pkg/temperature"
)

func main() {
	// A .env file can override the flag defaults below.
	_ = godotenv.Load()

	var (
		configFlag = flag.String("config", envOr("GODOSE_CONFIG", "config.yaml"), "Configuration file path")
		portFlag   = flag.String("p", os.Getenv("GODOSE_PORT"), "Temperature probe serial port override")
		mockFlag   = flag.Bool("mock", false, "Use simulated hardware instead of the I2C bus and GPIO lines")
		onceFlag   = flag.Bool("once", false, "Run a single measurement cycle and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Temperature.Port = *portFlag
	}

	// An invalid calibration model must never reach measurement.
	cal, err := electrode.NewCalibration(&cfg.Calibration, cfg.ADC.VOff)
	if err != nil {
		log.Fatalf("Electrode calibration failed: %v", err)
	}

	var (
		bus       adc.BusReader
		lines     pump.GPIO
		sensor    temperature.Sensor
		mockLines *pump.MockGPIO
	)

	if *mockFlag {
		bus = adc.NewMockBus(&cfg.Mock, cfg.ADC.VRef)
		mockLines = &pump.MockGPIO{}
		lines = mockLines
		sensor = temperature.Fixed(cfg.Mock.Temperature)
	} else {
		if err := hw.Init(); err != nil {
			log.Fatalf("Failed to initialize host drivers: %v", err)
		}

		i2cBus, err := hw.OpenI2C(cfg.ADC.I2CBus, cfg.ADC.I2CAddr)
		if err != nil {
			log.Fatalf("Failed to open I2C bus: %v", err)
		}
		defer i2cBus.Close()

		gpioLines, err := hw.OpenLines(cfg.Pump.SleepPin, cfg.Pump.StepPin)
		if err != nil {
			log.Fatalf("Failed to open GPIO lines: %v", err)
		}
		defer gpioLines.Close()

		probe := temperature.NewSerial(&cfg.Temperature)
		if err := probe.Connect(); err != nil {
			log.Fatalf("Failed to connect temperature probe: %v", err)
		}
		defer probe.Close()

		bus, lines, sensor = i2cBus, gpioLines, probe
	}

	meter := ph.New(adc.New(&cfg.ADC, bus), cal)

	pmp, err := pump.New(&cfg.Pump, lines)
	if err != nil {
		log.Fatalf("Pump init failed: %v", err)
	}
	defer pmp.Close()

	d := doser.New(&cfg.Controller)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Controller.Period)
	defer ticker.Stop()

	for {
		cycle(sensor, meter, d, pmp)

		if mockLines != nil {
			mockLines.Reset()
		}

		if *onceFlag {
			return
		}

		select {
		case <-sig:
			log.Printf("Shutting down")
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one measurement and dosing cycle. Per-cycle errors are logged
// and the loop continues; there are no retries inside the core.
func cycle(sensor temperature.Sensor, meter *ph.Meter, d *doser.Doser, pmp *pump.Pump) {
	temp, err := sensor.Read()
	if err != nil {
		log.Printf("Temperature read failed: %v", err)
		return
	}

	reading, err := meter.Read(temp)
	if err != nil {
		log.Printf("pH read failed: %v", err)
		return
	}

	log.Printf("%.1fC  %.3fV +- %2.0fmV  %.2fpH +- %.2fpH",
		temp, reading.Voltage, reading.VoltageDev*1e3, reading.PH, reading.PHDev)

	dose := d.Dose(reading.PH)
	if dose <= 0 {
		return
	}

	log.Printf("Dosing %.2f mL of nutrients", dose*1e3)
	if err := pmp.Dispense(dose); err != nil {
		log.Printf("Dispense failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
