//go:build rp2040

package main

import (
	"errors"
	"machine"

	"tinyhal/core"
)

var errADCChannel = errors.New("adc: channel has no pin")

// rpADCPins maps converter channels onto the RP2040's ADC inputs.
var rpADCPins = map[core.ADCChannel]machine.Pin{
	core.ADCChannel0: machine.ADC0,
	core.ADCChannel1: machine.ADC1,
	core.ADCChannel2: machine.ADC2,
	core.ADCChannel3: machine.ADC3,
}

// RPAdcDriver implements core.ADCDriver using TinyGo's machine.ADC. The
// 12-bit result is scaled to the 10 bits core code expects.
type RPAdcDriver struct {
	adc    machine.ADC
	on     bool
	eoc    bool
	value  uint16
	hasPin bool
}

// NewRPAdcDriver constructs the driver but does not configure it yet.
func NewRPAdcDriver() *RPAdcDriver {
	return &RPAdcDriver{}
}

func (d *RPAdcDriver) DeInit() {
	d.on = false
	d.eoc = false
	d.value = 0
}

func (d *RPAdcDriver) Configure(cfg core.ADCConfig) error {
	pin, ok := rpADCPins[cfg.Channel]
	if !ok {
		d.hasPin = false
		return errADCChannel
	}
	machine.InitADC()
	d.adc = machine.ADC{Pin: pin}
	d.adc.Configure(machine.ADCConfig{})
	d.hasPin = true
	return nil
}

func (d *RPAdcDriver) Enable(on bool) {
	d.on = on && d.hasPin
}

// StartConversion samples synchronously; machine.ADC blocks until ready.
func (d *RPAdcDriver) StartConversion() {
	if !d.on {
		return
	}
	// machine.ADC.Get returns a 16-bit left-aligned value.
	d.value = d.adc.Get() >> 6
	d.eoc = true
}

func (d *RPAdcDriver) EndOfConversion() bool {
	return d.eoc
}

func (d *RPAdcDriver) ConversionValue() uint16 {
	d.eoc = false
	return d.value
}
