//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"tinyhal/core"
)

// RP2040 Timer peripheral memory map. Alarm 0 belongs to the TinyGo
// runtime; the HAL timers use alarms 1-3.
const (
	timerBase     = 0x40054000
	timerALARM0   = timerBase + 0x10
	timerARMED    = timerBase + 0x20
	timerTIMERAWL = timerBase + 0x28
	timerINTR     = timerBase + 0x34
	timerINTE     = timerBase + 0x38
)

var (
	timerRAWL  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
	timerArmed = (*volatile.Register32)(unsafe.Pointer(uintptr(timerARMED)))
	timerIntr  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTR)))
	timerInte  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerINTE)))
)

func alarmReg(n uint8) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(timerALARM0 + 4*uint32(n))))
}

// minIntervalUs keeps very short periods from starving the main loop.
const minIntervalUs = 10

// rpTimer is one logical timer emulated on a 1 MHz alarm.
type rpTimer struct {
	alarm     uint8
	irq       interrupt.Interrupt
	interval  uint32 // microseconds between updates
	prescaler uint32 // counts-1 as programmed
	period    uint32
	counter   uint16
	running   bool
	armedIRQ  bool
}

// RPTimerDriver implements core.TimerDriver on the RP2040 microsecond timer.
type RPTimerDriver struct {
	timers [core.TimerSys + 1]rpTimer
}

var rpTimers *RPTimerDriver

// NewRPTimerDriver claims alarms 1-3 and installs their handlers.
func NewRPTimerDriver() *RPTimerDriver {
	d := &RPTimerDriver{}
	d.timers[core.Timer1].alarm = 1
	d.timers[core.Timer1].irq = interrupt.New(rp.IRQ_TIMER_IRQ_1, func(interrupt.Interrupt) {
		rpTimers.update(core.Timer1)
	})
	d.timers[core.Timer2].alarm = 2
	d.timers[core.Timer2].irq = interrupt.New(rp.IRQ_TIMER_IRQ_2, func(interrupt.Interrupt) {
		rpTimers.update(core.Timer2)
	})
	d.timers[core.TimerSys].alarm = 3
	d.timers[core.TimerSys].irq = interrupt.New(rp.IRQ_TIMER_IRQ_3, func(interrupt.Interrupt) {
		rpTimers.update(core.TimerSys)
	})
	rpTimers = d
	return d
}

// TimeBase converts the 16 MHz prescaler/period pair to an alarm interval.
func (d *RPTimerDriver) TimeBase(id core.TimerID, prescaler, period uint16, repeat uint8) {
	t := &d.timers[id]
	t.prescaler = uint32(prescaler)
	t.period = uint32(period)
	us := uint64(prescaler+1) * uint64(period+1) * uint64(repeat+1) * 1000000 / core.HSIFrequency
	if us < minIntervalUs {
		us = minIntervalUs
	}
	t.interval = uint32(us)
}

// CountPeriod returns the programmed prescaler and period of id.
func (d *RPTimerDriver) CountPeriod(id core.TimerID) (prescaler, period uint32) {
	t := &d.timers[id]
	return t.prescaler, t.period
}

func (d *RPTimerDriver) Enable(id core.TimerID, on bool) {
	t := &d.timers[id]
	t.running = on
	if on {
		d.arm(t, timerRAWL.Get())
		return
	}
	timerArmed.Set(1 << t.alarm)
}

// SetCounter restarts the current period. The counter value itself has no
// equivalent on an alarm.
func (d *RPTimerDriver) SetCounter(id core.TimerID, value uint16) {
	t := &d.timers[id]
	t.counter = value
	if t.running {
		d.arm(t, timerRAWL.Get())
	}
}

func (d *RPTimerDriver) ClearUpdate(id core.TimerID) {
	timerIntr.Set(1 << d.timers[id].alarm)
}

func (d *RPTimerDriver) EnableUpdateInterrupt(id core.TimerID, on bool) {
	t := &d.timers[id]
	t.armedIRQ = on
	if on {
		timerInte.SetBits(1 << t.alarm)
		t.irq.Enable()
		return
	}
	timerInte.ClearBits(1 << t.alarm)
	t.irq.Disable()
}

// SetPriority maps level 3 to the most urgent NVIC priority.
func (d *RPTimerDriver) SetPriority(id core.TimerID, level uint8) {
	d.timers[id].irq.SetPriority((3 - level&3) << 6)
}

func (d *RPTimerDriver) arm(t *rpTimer, from uint32) {
	alarmReg(t.alarm).Set(from + t.interval)
}

// update runs in interrupt context. The next alarm is scheduled from the
// previous deadline so the tick rate does not drift.
func (d *RPTimerDriver) update(id core.TimerID) {
	t := &d.timers[id]
	if t.running {
		d.arm(t, alarmReg(t.alarm).Get())
	}
	if !t.armedIRQ {
		d.ClearUpdate(id)
		return
	}
	if id == core.TimerSys {
		core.TickInterrupt()
		return
	}
	core.HandleTimerInterrupt(id)
}
