//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"tinyhal/core"
)

var errUARTFormat = errors.New("uart: unsupported frame format")

// RPUARTDriver implements core.UARTDriver on UART1 (GP8/GP9) through the
// interrupt-buffered uartx driver.
type RPUARTDriver struct {
	hw      *uartx.UART
	enabled bool
	pending int16 // next byte peeked from the RX ring, -1 if none
}

// NewRPUARTDriver creates the driver. The peripheral is configured later by
// core.UARTInit.
func NewRPUARTDriver() *RPUARTDriver {
	return &RPUARTDriver{hw: uartx.UART1, pending: -1}
}

func (d *RPUARTDriver) DeInit() {
	d.hw.Bus.UARTCR.Set(0)
	d.hw.Bus.UARTRSR.Set(0)
	d.hw.Buffer.Clear()
	d.pending = -1
	d.enabled = false
}

func (d *RPUARTDriver) Configure(cfg core.UARTConfig) error {
	var par uartx.UARTParity
	switch cfg.Parity {
	case core.ParityEven:
		par = uartx.ParityEven
	case core.ParityOdd:
		par = uartx.ParityOdd
	default:
		par = uartx.ParityNone
	}
	if cfg.DataBits < 5 || cfg.DataBits > 8 {
		return errUARTFormat
	}

	err := d.hw.Configure(uartx.UARTConfig{
		BaudRate: cfg.BaudRate,
		TX:       machine.GPIO8,
		RX:       machine.GPIO9,
	})
	if err != nil {
		return err
	}
	if err := d.hw.SetFormat(cfg.DataBits, cfg.StopBits, par); err != nil {
		return err
	}
	// Configure leaves the PL011 running; core.UARTInit enables it last.
	d.hw.Bus.UARTCR.ClearBits(rp.UART0_UARTCR_UARTEN)
	return nil
}

func (d *RPUARTDriver) Enable(on bool) {
	d.enabled = on
	if on {
		d.hw.Bus.UARTCR.SetBits(rp.UART0_UARTCR_UARTEN)
		return
	}
	d.hw.Bus.UARTCR.ClearBits(rp.UART0_UARTCR_UARTEN)
}

func (d *RPUARTDriver) Flag(f core.UARTFlag) bool {
	switch f {
	case core.UARTFlagTXE:
		return !d.hw.Bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF)
	case core.UARTFlagRXNE:
		return d.enabled && d.peek()
	case core.UARTFlagOR:
		return d.hw.Bus.UARTRSR.HasBits(rp.UART0_UARTRSR_OE)
	case core.UARTFlagFE:
		return d.hw.Bus.UARTRSR.HasBits(rp.UART0_UARTRSR_FE)
	case core.UARTFlagPE:
		return d.hw.Bus.UARTRSR.HasBits(rp.UART0_UARTRSR_PE)
	default:
		// The PL011 has no noise detector.
		return false
	}
}

func (d *RPUARTDriver) SendByte(b byte) {
	_ = d.hw.WriteByte(b)
}

func (d *RPUARTDriver) ReceiveByte() byte {
	d.peek()
	b := byte(d.pending)
	d.pending = -1
	d.hw.Bus.UARTRSR.Set(0)
	return b
}

// peek moves one byte from the RX ring into pending so RXNE can be reported
// without consuming data.
func (d *RPUARTDriver) peek() bool {
	if d.pending >= 0 {
		return true
	}
	b, err := d.hw.ReadByte()
	if err != nil {
		return false
	}
	d.pending = int16(b)
	return true
}
