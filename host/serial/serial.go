package serial

import (
	"fmt"
	"io"
	"time"
)

// ConsoleBaud is the firmware's default console rate.
const ConsoleBaud = 9600

// Port is a board console connection. The native implementation wraps
// github.com/tarm/serial; tests use in-memory pipes.
type Port interface {
	io.ReadWriteCloser

	// Flush discards received data that has not been read yet.
	Flush() error
}

// Config holds serial port configuration. Frames are always 8N1 to match
// core.UARTInit.
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; must match the firmware console
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the configuration for the firmware console.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        ConsoleBaud,
		ReadTimeout: 100,
	}
}

// Validate checks the settings Open relies on.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if c.Device == "" {
		return fmt.Errorf("no serial device")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("invalid read timeout %dms", c.ReadTimeout)
	}
	return nil
}

// Timeout returns the read timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// Polling reports whether reads return io.EOF on an idle line instead of
// blocking.
func (c *Config) Polling() bool {
	return c.ReadTimeout > 0
}
