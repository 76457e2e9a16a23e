//go:build rp2040

package main

import (
	"machine"

	"tinyhal/core"
)

// portPin identifies one bit of a logical port.
type portPin struct {
	port core.GPIOPort
	mask core.PinMask
}

// rpPinMap routes the board's port/bit pairs onto RP2040 GPIOs.
var rpPinMap = map[portPin]machine.Pin{
	{core.PortB, core.Pin5}: machine.LED,    // GP25
	{core.PortD, core.Pin5}: machine.GPIO8,  // UART1 TX
	{core.PortD, core.Pin6}: machine.GPIO9,  // UART1 RX
	{core.PortC, core.Pin4}: machine.ADC2,   // GP28
	{core.PortD, core.Pin3}: machine.GPIO15, // PIO PWM
}

// RPGPIODriver implements the GPIODriver interface for RP2040
type RPGPIODriver struct {
	// Open-drain pins are emulated by switching direction, so remember them.
	openDrain map[machine.Pin]bool
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{openDrain: make(map[machine.Pin]bool)}
}

// each calls fn for every mapped pin selected by mask. Unmapped bits are
// ignored.
func (d *RPGPIODriver) each(port core.GPIOPort, mask core.PinMask, fn func(machine.Pin)) {
	for bit := core.Pin0; bit != 0; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		if p, ok := rpPinMap[portPin{port, bit}]; ok {
			fn(p)
		}
	}
}

func (d *RPGPIODriver) Configure(port core.GPIOPort, mask core.PinMask, mode core.DriveMode) {
	d.each(port, mask, func(p machine.Pin) {
		d.openDrain[p] = mode == core.ModeOutputOpenDrain
		switch mode {
		case core.ModeInput:
			p.Configure(machine.PinConfig{Mode: machine.PinInput})
		case core.ModeInputPullUp:
			p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		case core.ModeOutputOpenDrain:
			// Low is driven, high releases the line.
			p.Low()
			p.Configure(machine.PinConfig{Mode: machine.PinOutput})
			p.Low()
		case core.ModeOutputHigh:
			p.Configure(machine.PinConfig{Mode: machine.PinOutput})
			p.High()
		default:
			p.Configure(machine.PinConfig{Mode: machine.PinOutput})
			p.Low()
		}
	})
}

func (d *RPGPIODriver) WriteHigh(port core.GPIOPort, mask core.PinMask) {
	d.each(port, mask, func(p machine.Pin) {
		if d.openDrain[p] {
			p.Configure(machine.PinConfig{Mode: machine.PinInput})
			return
		}
		p.High()
	})
}

func (d *RPGPIODriver) WriteLow(port core.GPIOPort, mask core.PinMask) {
	d.each(port, mask, func(p machine.Pin) {
		if d.openDrain[p] {
			p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		}
		p.Low()
	})
}

func (d *RPGPIODriver) ReadInput(port core.GPIOPort, mask core.PinMask) bool {
	p, ok := rpPinMap[portPin{port, mask}]
	if !ok {
		return false
	}
	return p.Get()
}
