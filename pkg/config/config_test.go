package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "1", cfg.ADC.I2CBus)
	assert.Equal(t, uint16(0x4F), cfg.ADC.I2CAddr)
	assert.Equal(t, 2.5, cfg.ADC.VRef)
	assert.Equal(t, 1.251, cfg.ADC.VOff)

	assert.Equal(t, 21.2, cfg.Calibration.Temperature)
	require.Len(t, cfg.Calibration.Points, 2)
	assert.Equal(t, 4.0, cfg.Calibration.Points[0].PH)
	assert.Equal(t, 1.418, cfg.Calibration.Points[0].Voltage)
	assert.Equal(t, 7.0, cfg.Calibration.Points[1].PH)
	assert.Equal(t, 1.224, cfg.Calibration.Points[1].Voltage)

	assert.Equal(t, 17, cfg.Pump.SleepPin)
	assert.Equal(t, 27, cfg.Pump.StepPin)
	assert.Equal(t, 30.0, cfg.Pump.MaxRPM)
	assert.Equal(t, 1.8, cfg.Pump.StepAngle)
	assert.Equal(t, 8, cfg.Pump.Microsteps)
	assert.Equal(t, 1.05e6, cfg.Pump.StepsPerLitre)
	assert.Equal(t, time.Millisecond, cfg.Pump.WakeUpTime)

	assert.Equal(t, 6.0, cfg.Controller.DesiredPH)
	assert.Equal(t, 5*time.Minute, cfg.Controller.Period)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "1", cfg.ADC.I2CBus)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
adc:
  i2c_bus: "3"
  i2c_addr: 0x48
  v_ref: 3.3
  v_off: 1.65

calibration:
  temperature: 25.0
  points:
    - ph: 4.01
      voltage: 1.476
    - ph: 6.86
      voltage: 1.297

pump:
  sleep_pin: 23
  step_pin: 24
  max_rpm: 60
  step_angle: 0.9
  microsteps: 16
  steps_per_litre: 2.1e6
  wake_up_time: 2ms

temperature:
  port: "/dev/ttyACM1"
  baud_rate: 115200

controller:
  desired_ph: 5.8
  proportional_k: 0.4
  solution_volume: 25
  nutrients_per_ph: 1.2e-3
  min_dose: 5e-4
  period: 10m
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "3", cfg.ADC.I2CBus)
	assert.Equal(t, uint16(0x48), cfg.ADC.I2CAddr)
	assert.Equal(t, 3.3, cfg.ADC.VRef)
	assert.Equal(t, 1.65, cfg.ADC.VOff)

	assert.Equal(t, 25.0, cfg.Calibration.Temperature)
	require.Len(t, cfg.Calibration.Points, 2)
	assert.Equal(t, 4.01, cfg.Calibration.Points[0].PH)
	assert.Equal(t, 1.297, cfg.Calibration.Points[1].Voltage)

	assert.Equal(t, 23, cfg.Pump.SleepPin)
	assert.Equal(t, 24, cfg.Pump.StepPin)
	assert.Equal(t, 60.0, cfg.Pump.MaxRPM)
	assert.Equal(t, 0.9, cfg.Pump.StepAngle)
	assert.Equal(t, 16, cfg.Pump.Microsteps)
	assert.Equal(t, 2.1e6, cfg.Pump.StepsPerLitre)
	assert.Equal(t, 2*time.Millisecond, cfg.Pump.WakeUpTime)

	assert.Equal(t, "/dev/ttyACM1", cfg.Temperature.Port)
	assert.Equal(t, 115200, cfg.Temperature.BaudRate)

	assert.Equal(t, 5.8, cfg.Controller.DesiredPH)
	assert.Equal(t, 10*time.Minute, cfg.Controller.Period)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
temperature:
  port: "/dev/ttyACM0"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyACM0", cfg.Temperature.Port)
	assert.Equal(t, 9600, cfg.Temperature.BaudRate) // default
	assert.Equal(t, 2.5, cfg.ADC.VRef)              // default
	assert.Equal(t, 17, cfg.Pump.SleepPin)          // default
	assert.Equal(t, time.Millisecond, cfg.Pump.WakeUpTime)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Temperature.Port = "/dev/ttyUSB1"
	cfg.Controller.DesiredPH = 5.5

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", loaded.Temperature.Port)
	assert.Equal(t, 5.5, loaded.Controller.DesiredPH)
	assert.Equal(t, cfg.Pump, loaded.Pump)
	assert.Equal(t, cfg.Calibration, loaded.Calibration)
}
