package serial

import (
	"fmt"

	"github.com/tarm/serial"
)

// NativePort is a Port on a host serial device.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens the console device described by cfg.
func Open(cfg *Config) (Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.Timeout(),
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port, cfg: cfg}, nil
}

// Read reads console bytes. With a read timeout configured, an idle line
// returns io.EOF.
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

func (p *NativePort) Flush() error {
	return p.port.Flush()
}

// Device returns the path the port was opened on.
func (p *NativePort) Device() string {
	return p.cfg.Device
}
