package temperature

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"

	"github.com/itohio/godose/pkg/config"
)

const (
	// DefaultBaudRate is the standard baud rate of the probe MCU.
	DefaultBaudRate = 9600
	// DefaultBufferSize is the default size for the readings channel buffer.
	DefaultBufferSize = 16
)

// Serial reads a probe that streams one decimal temperature per line, e.g.
// "21.4\n". A background goroutine parses incoming lines; Read blocks until
// the next reading arrives.
type Serial struct {
	port     string
	baudRate int

	conn      serial.Port
	readings  chan float64
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewSerial creates a new probe instance for the configured port.
func NewSerial(cfg *config.TemperatureConfig) *Serial {
	baudRate := cfg.BaudRate
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:     cfg.Port,
		baudRate: baudRate,
		readings: make(chan float64, DefaultBufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect opens the serial port and starts reading lines.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	conn, err := serial.Open(s.port, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}

	s.conn = conn
	s.connected = true

	go s.readLines(conn)

	return nil
}

// Close closes the connection and stops the reader.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.cancel()

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		s.conn = nil
	}

	s.connected = false
	close(s.readings)

	return nil
}

// IsConnected returns whether the probe is currently connected.
func (s *Serial) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Read blocks until the probe delivers the next reading.
func (s *Serial) Read() (float64, error) {
	reading, ok := <-s.readings
	if !ok {
		return 0, fmt.Errorf("temperature probe disconnected")
	}
	return reading, nil
}

// readLines reads lines from the serial port and parses them into readings.
// Close may close the readings channel while a send is pending, so the
// goroutine recovers instead of taking the process down during shutdown.
func (s *Serial) readLines(conn io.Reader) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readLines: %v", r)
		}
	}()

	scanner := bufio.NewScanner(conn)
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && err != io.EOF {
					log.Printf("Error reading from serial port: %v", err)
				}
				return
			}

			reading, err := parseReading(scanner.Text())
			if err != nil {
				log.Printf("Failed to parse temperature line: %v", err)
				continue
			}

			select {
			case s.readings <- reading:
			case <-s.ctx.Done():
				return
			default:
				// Channel full, drop the reading
			}
		}
	}
}

// parseReading parses one probe line into a temperature in C.
func parseReading(line string) (float64, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, fmt.Errorf("empty line")
	}

	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q: %w", line, err)
	}

	return value, nil
}
