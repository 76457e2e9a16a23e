// Package sim is a host-side simulated board. It implements every core
// driver interface against in-memory registers so the core and app packages
// run unmodified on a workstation.
package sim

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tinyhal/core"
)

const numPorts = int(core.PortF) + 1

type port struct {
	odr    core.PinMask // output latch
	idr    core.PinMask // externally driven level
	driven core.PinMask // pins with an external driver attached
	ddr    core.PinMask // 1 = output
	od     core.PinMask // open-drain outputs
	pull   core.PinMask // pull-ups on inputs
}

// TimerState is the register view of one simulated timer.
type TimerState struct {
	Prescaler uint16
	Period    uint16
	Repeat    uint8
	Counter   uint16
	Enabled   bool
	Update    bool // pending update flag
	IRQ       bool
	Priority  uint8

	rcr uint8 // overflows left before the next update event
}

type pwmChannel struct {
	pulse uint16
	on    bool
}

// Board holds the simulated peripheral state. All methods are safe for
// concurrent use; the tick goroutine started by Run and the main loop share
// the board.
type Board struct {
	mu sync.Mutex

	ports  [numPorts]port
	timers [core.TimerSys + 1]TimerState

	uartCfg     core.UARTConfig
	uartOn      bool
	tx          []byte
	rx          []byte
	faults      map[core.UARTFlag]bool
	consoleSink io.Writer

	adcCfg     core.ADCConfig
	adcOn      bool
	adcSamples []uint16
	adcNext    int
	adcValue   uint16
	adcEOC     bool

	pwm map[core.PWMChannel]pwmChannel

	calls []string
	log   logrus.FieldLogger
}

// NewBoard returns a board in its reset state.
func NewBoard() *Board {
	return &Board{
		faults: make(map[core.UARTFlag]bool),
		pwm:    make(map[core.PWMChannel]pwmChannel),
		log:    logrus.StandardLogger(),
	}
}

// SetLogger replaces the logger used for peripheral configuration traces.
func (b *Board) SetLogger(l logrus.FieldLogger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = l
}

// SetConsole copies every transmitted UART byte to w as well as the TX log.
func (b *Board) SetConsole(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consoleSink = w
}

// Install registers the board as the driver for every core peripheral.
func (b *Board) Install() {
	core.SetGPIODriver(b.GPIO())
	core.SetTimerDriver(b.Timers())
	core.SetUARTDriver(b.UART())
	core.SetADCDriver(b.ADC())
	core.SetPWMDriver(b.PWM())
}

// GPIO returns the board's GPIO driver.
func (b *Board) GPIO() *GPIO { return &GPIO{b} }

// Timers returns the board's timer driver.
func (b *Board) Timers() *Timers { return &Timers{b} }

// UART returns the board's UART1 driver.
func (b *Board) UART() *UART { return &UART{b} }

// ADC returns the board's ADC driver.
func (b *Board) ADC() *ADC { return &ADC{b} }

// PWM returns the board's output-compare driver.
func (b *Board) PWM() *PWM { return &PWM{b} }

func (b *Board) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

// Calls returns the driver call log.
func (b *Board) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// ResetCalls empties the driver call log.
func (b *Board) ResetCalls() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

// Tick fires n system tick interrupts, then advances the user timers by n
// counts each. Interrupts are delivered outside the board lock so handlers
// may call back into the board.
func (b *Board) Tick(n int) {
	for i := 0; i < n; i++ {
		if b.sysTickArmed() {
			core.TickInterrupt()
		}
		for _, id := range [...]core.TimerID{core.Timer1, core.Timer2} {
			if b.stepTimer(id) {
				core.HandleTimerInterrupt(id)
			}
		}
	}
}

// Run calls Tick(1) every period until ctx is cancelled.
func (b *Board) Run(ctx context.Context, period time.Duration) {
	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			b.Tick(1)
		}
	}
}

func (b *Board) sysTickArmed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := &b.timers[core.TimerSys]
	if !st.Enabled {
		return false
	}
	st.Update = true
	return st.IRQ
}

// stepTimer advances a user timer by one count (the prescaler is not
// modelled) and reports whether its update interrupt should fire. An update
// event is raised every Repeat+1 overflows.
func (b *Board) stepTimer(id core.TimerID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := &b.timers[id]
	if !st.Enabled {
		return false
	}
	if st.Counter < st.Period {
		st.Counter++
		return false
	}
	st.Counter = 0
	if st.rcr > 0 {
		st.rcr--
		return false
	}
	st.rcr = st.Repeat
	st.Update = true
	return st.IRQ
}
