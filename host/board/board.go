// Package board talks to a running tinyhal firmware over its console UART.
package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tinyhal/host/console"
	"tinyhal/host/serial"
)

// Console command bytes understood by the firmware.
const (
	CmdToggleLED = 'l'
	CmdReport    = 'r'
	CmdEvents    = 'e'
	CmdHelp      = '?'
)

// maxLine bounds a console line; longer input is dropped up to the next
// newline.
const maxLine = 128

// Handler receives parsed console output. Nil fields are skipped.
type Handler struct {
	OnSample func(console.Sample)
	OnEvent  func(console.Event)
	OnBanner func()
	OnLine   func(string) // every other non-empty line
}

// Board represents a connection to a board console
type Board struct {
	port io.ReadWriteCloser
	log  logrus.FieldLogger

	// With a serial read timeout an idle line reads as io.EOF; only a
	// closed stream should end Listen.
	eofIsIdle bool

	wmu       sync.Mutex
	connected bool

	now func() time.Time
}

// New wraps an already open stream. io.EOF from the stream ends Listen.
func New(port io.ReadWriteCloser, log logrus.FieldLogger) *Board {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Board{port: port, log: log, connected: true, now: time.Now}
}

// Connect opens a board on a serial device
func Connect(cfg *serial.Config, log logrus.FieldLogger) (*Board, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}

	b := New(port, log)
	b.eofIsIdle = cfg.Polling()
	return b, nil
}

// Close closes the connection to the board
func (b *Board) Close() error {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	if !b.connected {
		return nil
	}
	b.connected = false
	return b.port.Close()
}

// IsConnected returns whether the board is connected
func (b *Board) IsConnected() bool {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	return b.connected
}

// Send writes a single console command byte.
func (b *Board) Send(cmd byte) error {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	if !b.connected {
		return fmt.Errorf("not connected to board")
	}
	if _, err := b.port.Write([]byte{cmd}); err != nil {
		return fmt.Errorf("failed to send command %q: %w", cmd, err)
	}
	return nil
}

// ToggleLED asks the firmware to toggle its LED.
func (b *Board) ToggleLED() error { return b.Send(CmdToggleLED) }

// RequestReport asks the firmware for an immediate ADC report.
func (b *Board) RequestReport() error { return b.Send(CmdReport) }

// RequestEvents asks the firmware to dump its event ring.
func (b *Board) RequestEvents() error { return b.Send(CmdEvents) }

// Listen reads console lines and dispatches them to h until ctx is done or
// the stream fails. It returns nil when the stream ends cleanly.
func (b *Board) Listen(ctx context.Context, h Handler) error {
	buf := make([]byte, 64)
	line := make([]byte, 0, maxLine)
	overflow := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := b.port.Read(buf)
		for _, c := range buf[:n] {
			switch {
			case c == '\n':
				if !overflow {
					b.dispatch(string(line), h)
				}
				line = line[:0]
				overflow = false
			case len(line) == maxLine:
				if !overflow {
					b.log.WithField("len", maxLine).Warn("console line too long, dropped")
				}
				overflow = true
			default:
				line = append(line, c)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if b.eofIsIdle {
					continue
				}
				return nil
			}
			if !b.IsConnected() {
				return nil
			}
			return fmt.Errorf("console read: %w", err)
		}
	}
}

func (b *Board) dispatch(raw string, h Handler) {
	line := console.Clean(raw)
	if line == "" {
		return
	}

	switch console.Classify(line) {
	case console.KindReport:
		s, err := console.ParseReport(line)
		if err != nil {
			b.log.WithError(err).Warn("bad report line")
			return
		}
		s.Received = b.now()
		if h.OnSample != nil {
			h.OnSample(s)
		}
	case console.KindEvent:
		e, err := console.ParseEvent(line)
		if err != nil {
			b.log.WithError(err).Warn("bad event line")
			return
		}
		if h.OnEvent != nil {
			h.OnEvent(e)
		}
	case console.KindBanner:
		b.log.Info("board booted")
		if h.OnBanner != nil {
			h.OnBanner()
		}
	default:
		if h.OnLine != nil {
			h.OnLine(line)
		}
	}
}
