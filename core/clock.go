package core

import "sync/atomic"

// Clock source and tick rate of the reference part.
const (
	HSIFrequency   = 16000000 // 16 MHz internal oscillator
	TicksPerSecond = 1000     // 1 kHz software tick
)

// TimerSys programming for a 1 ms update period: 16 MHz / 128 / 125 = 1 kHz.
const (
	TickPrescaler = 128
	TickPeriod    = HSIFrequency / TickPrescaler / TicksPerSecond
)

// Clock is a monotonically increasing tick counter advanced by a periodic
// timer interrupt. The counter is 32 bits wide and wraps to zero; all
// elapsed-time arithmetic is done with wrapping unsigned subtraction.
//
// The only mutator is tick, reached through TickInterrupt. Readers use a
// single atomic load and never block.
type Clock struct {
	ticks   atomic.Uint32
	started atomic.Bool
}

var sysClock Clock

// Init programs the tick timer, clears its pending flag, arms the update
// interrupt and starts it. Calls after the first are ignored.
func (c *Clock) Init(d TimerDriver) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	d.TimeBase(TimerSys, TickPrescaler-1, TickPeriod-1, 0)
	d.ClearUpdate(TimerSys)
	d.EnableUpdateInterrupt(TimerSys, true)
	d.Enable(TimerSys, true)
}

// Started reports whether Init has run.
func (c *Clock) Started() bool {
	return c.started.Load()
}

func (c *Clock) tick() {
	c.ticks.Add(1)
}

// Now returns the current tick count.
func (c *Clock) Now() uint32 {
	return c.ticks.Load()
}

// Since returns the ticks elapsed since start, correct across one wrap.
func (c *Clock) Since(start uint32) uint32 {
	return c.Now() - start
}

// Expired reports whether timeout ticks have passed since start.
func (c *Clock) Expired(start, timeout uint32) bool {
	return c.Since(start) >= timeout
}

// Delay busy-waits until d ticks have elapsed. There is no timeout and no
// way to cancel it; Delay(0) returns immediately.
func (c *Clock) Delay(d uint32) {
	start := c.Now()
	for c.Now()-start < d {
	}
}

// ClockInit starts the system tick on the registered timer driver.
func ClockInit() {
	sysClock.Init(MustTimer())
}

// TickInterrupt is the TimerSys update-interrupt entry point. Target code
// calls it from the ISR exactly once per tick period and from nowhere else.
func TickInterrupt() {
	if timerDriver != nil {
		timerDriver.ClearUpdate(TimerSys)
	}
	sysClock.tick()
}

// Now returns the system tick count (milliseconds since ClockInit).
func Now() uint32 {
	return sysClock.Now()
}

// Since returns the system ticks elapsed since start.
func Since(start uint32) uint32 {
	return sysClock.Since(start)
}

// Expired reports whether timeout system ticks have passed since start.
func Expired(start, timeout uint32) bool {
	return sysClock.Expired(start, timeout)
}

// Delay busy-waits for d system ticks.
func Delay(d uint32) {
	sysClock.Delay(d)
}

// DelayMs busy-waits for ms milliseconds.
func DelayMs(ms uint16) {
	sysClock.Delay(uint32(ms) * 1000 / TicksPerSecond)
}

// SystemClock returns the process-wide clock.
func SystemClock() *Clock {
	return &sysClock
}
