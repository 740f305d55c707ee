package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	ADC         ADCConfig         `yaml:"adc"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Pump        PumpConfig        `yaml:"pump"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Controller  ControllerConfig  `yaml:"controller"`
	Mock        MockConfig        `yaml:"mock"`
}

// ADCConfig describes the analog front end the pH electrode is wired to.
type ADCConfig struct {
	I2CBus  string  `yaml:"i2c_bus"`  // I2C bus name ("1" on a Raspberry Pi)
	I2CAddr uint16  `yaml:"i2c_addr"` // Device address
	VRef    float64 `yaml:"v_ref"`    // Reference voltage (V)
	VOff    float64 `yaml:"v_off"`    // Front end offset voltage at pH 7 (V)
}

// CalibrationPoint is a single two-point-calibration measurement.
type CalibrationPoint struct {
	PH      float64 `yaml:"ph"`
	Voltage float64 `yaml:"voltage"`
}

// CalibrationConfig contains the electrode calibration data.
type CalibrationConfig struct {
	Temperature float64            `yaml:"temperature"` // Reference temperature (C)
	Points      []CalibrationPoint `yaml:"points"`
}

// PumpConfig describes the stepper pump and its driver.
type PumpConfig struct {
	SleepPin      int           `yaml:"sleep_pin"`       // Driver sleep line (BCM number)
	StepPin       int           `yaml:"step_pin"`        // Driver step line (BCM number)
	MaxRPM        float64       `yaml:"max_rpm"`         // Motor rated speed
	StepAngle     float64       `yaml:"step_angle"`      // Full step angle (deg)
	Microsteps    int           `yaml:"microsteps"`      // Driver microstepping factor
	StepsPerLitre float64       `yaml:"steps_per_litre"` // Pump calibration
	WakeUpTime    time.Duration `yaml:"wake_up_time"`    // Driver settling time after sleep
}

// TemperatureConfig contains the serial temperature probe configuration.
type TemperatureConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ControllerConfig contains the nutrient dosing policy parameters.
type ControllerConfig struct {
	DesiredPH      float64       `yaml:"desired_ph"`
	ProportionalK  float64       `yaml:"proportional_k"`
	SolutionVolume float64       `yaml:"solution_volume"`  // Tank volume (L)
	NutrientsPerPH float64       `yaml:"nutrients_per_ph"` // Nutrient concentration change per pH unit
	MinDose        float64       `yaml:"min_dose"`         // Smallest dose the pump can meter (L)
	Period         time.Duration `yaml:"period"`           // Measurement cycle period
}

// MockConfig contains simulated hardware configuration.
type MockConfig struct {
	Voltage     float64 `yaml:"voltage"`     // Simulated electrode voltage (V)
	NoiseLevel  float64 `yaml:"noise_level"` // Noise level (V)
	Temperature float64 `yaml:"temperature"` // Simulated solution temperature (C)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		ADC: ADCConfig{
			I2CBus:  "1",
			I2CAddr: 0x4F,
			VRef:    2.5,
			VOff:    1.251,
		},
		Calibration: CalibrationConfig{
			Temperature: 21.2,
			Points: []CalibrationPoint{
				{PH: 4.0, Voltage: 1.418},
				{PH: 7.0, Voltage: 1.224},
			},
		},
		Pump: PumpConfig{
			SleepPin:      17,
			StepPin:       27,
			MaxRPM:        30,
			StepAngle:     1.8,
			Microsteps:    8,
			StepsPerLitre: 1.05e6, // 1050 steps per mL
			WakeUpTime:    time.Millisecond,
		},
		Temperature: TemperatureConfig{
			Port:     "/dev/ttyUSB0", // Should be "COM4" or similar on Windows
			BaudRate: 9600,
		},
		Controller: ControllerConfig{
			DesiredPH:      6.0,
			ProportionalK:  0.5,
			SolutionVolume: 10,
			NutrientsPerPH: 1.65e-3,
			MinDose:        1e-3,
			Period:         5 * time.Minute,
		},
		Mock: MockConfig{
			Voltage:     1.224, // pH 7 on the default calibration
			NoiseLevel:  0.003,
			Temperature: 21.2,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.ADC.I2CBus == "" {
		c.ADC.I2CBus = def.ADC.I2CBus
	}
	if c.ADC.I2CAddr == 0 {
		c.ADC.I2CAddr = def.ADC.I2CAddr
	}
	if c.ADC.VRef == 0 {
		c.ADC.VRef = def.ADC.VRef
	}

	if c.Calibration.Temperature == 0 {
		c.Calibration.Temperature = def.Calibration.Temperature
	}
	if len(c.Calibration.Points) == 0 {
		c.Calibration.Points = def.Calibration.Points
	}

	if c.Pump.MaxRPM == 0 {
		c.Pump.MaxRPM = def.Pump.MaxRPM
	}
	if c.Pump.StepAngle == 0 {
		c.Pump.StepAngle = def.Pump.StepAngle
	}
	if c.Pump.Microsteps == 0 {
		c.Pump.Microsteps = def.Pump.Microsteps
	}
	if c.Pump.StepsPerLitre == 0 {
		c.Pump.StepsPerLitre = def.Pump.StepsPerLitre
	}
	if c.Pump.WakeUpTime == 0 {
		c.Pump.WakeUpTime = def.Pump.WakeUpTime
	}

	if c.Temperature.Port == "" {
		c.Temperature.Port = def.Temperature.Port
	}
	if c.Temperature.BaudRate == 0 {
		c.Temperature.BaudRate = def.Temperature.BaudRate
	}

	if c.Controller.DesiredPH == 0 {
		c.Controller.DesiredPH = def.Controller.DesiredPH
	}
	if c.Controller.SolutionVolume == 0 {
		c.Controller.SolutionVolume = def.Controller.SolutionVolume
	}
	if c.Controller.Period == 0 {
		c.Controller.Period = def.Controller.Period
	}

	if c.Mock.Voltage == 0 {
		c.Mock.Voltage = def.Mock.Voltage
	}
	if c.Mock.Temperature == 0 {
		c.Mock.Temperature = def.Mock.Temperature
	}
}
