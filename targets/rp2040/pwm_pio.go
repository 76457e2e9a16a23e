//go:build rp2040

package main

import (
	"machine"
	"runtime"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"tinyhal/core"
)

// PIO program for one PWM period per command word.
// Command word format:
//
//	Bits 0-15:  high loop count (X)
//	Bits 16-31: low loop count (Y)
//
// High time is X+2 cycles, low time is Y+5 cycles including the pull.
func buildPWMProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),           // 0: pull block
		asm.Out(rp2pio.OutDestX, 16).Encode(),    // 1: out x, 16
		asm.Out(rp2pio.OutDestY, 16).Encode(),    // 2: out y, 16
		asm.Set(rp2pio.SetDestPins, 1).Encode(),  // 3: set pins, 1
		asm.Jmp(4, rp2pio.JmpXNZeroDec).Encode(), // 4: jmp x--, 4
		asm.Set(rp2pio.SetDestPins, 0).Encode(),  // 5: set pins, 0
		asm.Jmp(6, rp2pio.JmpYNZeroDec).Encode(), // 6: jmp y--, 6
		// .wrap
	}
}

const (
	pwmPIOOrigin = 0
	highOverhead = 2
	lowOverhead  = 5
)

// PeriodSource reports a timer's programmed time base.
type PeriodSource interface {
	CountPeriod(id core.TimerID) (prescaler, period uint32)
}

// RPPWMDriver implements core.PWMDriver with a PIO state machine standing in
// for a timer compare channel. One PIO cycle equals one timer count.
type RPPWMDriver struct {
	timers PeriodSource
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	pin    machine.Pin
	offset uint8
	loaded bool

	word    uint32 // current command word, read by the feeder
	running bool
	feeding bool
}

// NewRPPWMDriver creates the driver on PIO0 state machine 0.
func NewRPPWMDriver(timers PeriodSource) *RPPWMDriver {
	return &RPPWMDriver{
		timers: timers,
		pio:    rp2pio.PIO0,
		sm:     rp2pio.PIO0.StateMachine(0),
		pin:    machine.GPIO15,
	}
}

func (d *RPPWMDriver) routed(tm core.TimerID, ch core.PWMChannel) bool {
	return tm == core.Timer2 && ch == core.PWMChannel2
}

func (d *RPPWMDriver) load(tm core.TimerID) error {
	d.sm.TryClaim()
	program := buildPWMProgram()
	offset, err := d.pio.AddProgram(program, pwmPIOOrigin)
	if err != nil {
		return err
	}
	d.offset = offset

	d.pin.Configure(machine.PinConfig{Mode: d.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(d.pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	psc, _ := d.timers.CountPeriod(tm)
	div := uint64(machine.CPUFrequency()) * uint64(psc+1) * 256 / core.HSIFrequency
	if div < 256 {
		div = 256
	}
	cfg.SetClkDivIntFrac(uint16(div>>8), uint8(div))

	d.sm.Init(offset, cfg)
	d.sm.SetPindirsConsecutive(d.pin, 1, true)
	d.sm.SetPinsConsecutive(d.pin, 1, false)
	d.loaded = true
	return nil
}

// commandWord splits one period into high and low loop counts. ok is false
// when the output is constant (0% or 100%).
func commandWord(pulse uint16, period uint32) (word uint32, high, ok bool) {
	counts := period + 1
	p := uint32(pulse)
	if p == 0 {
		return 0, false, false
	}
	if p >= counts {
		return 0, true, false
	}
	if p < highOverhead {
		p = highOverhead
	}
	if counts-p < lowOverhead {
		p = counts - lowOverhead
	}
	x := p - highOverhead
	y := counts - p - lowOverhead
	return x&0xffff | (y&0xffff)<<16, false, true
}

func (d *RPPWMDriver) ConfigureOutputCompare(tm core.TimerID, ch core.PWMChannel, pulse uint16) {
	if !d.routed(tm, ch) {
		return
	}
	if !d.loaded {
		if err := d.load(tm); err != nil {
			return
		}
	}
	d.SetCompare(tm, ch, pulse)
}

func (d *RPPWMDriver) SetCompare(tm core.TimerID, ch core.PWMChannel, pulse uint16) {
	if !d.routed(tm, ch) || !d.loaded {
		return
	}
	_, period := d.timers.CountPeriod(tm)
	word, high, ok := commandWord(pulse, period)
	if !ok {
		d.halt(high)
		return
	}
	d.word = word
	if !d.running {
		d.sm.ClearFIFOs()
		d.sm.Restart()
		d.sm.SetEnabled(true)
		d.running = true
	}
	if !d.feeding {
		d.feeding = true
		go d.feed()
	}
}

func (d *RPPWMDriver) DisableOutputCompare(tm core.TimerID, ch core.PWMChannel) {
	if !d.routed(tm, ch) || !d.loaded {
		return
	}
	d.halt(false)
}

// halt stops the state machine and holds the pin at level.
func (d *RPPWMDriver) halt(level bool) {
	d.running = false
	d.sm.SetEnabled(false)
	d.sm.ClearFIFOs()
	d.sm.SetPinsConsecutive(d.pin, 1, level)
}

// feed keeps the TX FIFO topped up with the current command word.
func (d *RPPWMDriver) feed() {
	defer func() { d.feeding = false }()
	for d.running {
		if d.sm.IsTxFIFOFull() {
			runtime.Gosched()
			continue
		}
		d.sm.TxPut(d.word)
	}
}
