package sim

import "tinyhal/core"

// Timers implements core.TimerDriver for TIMER1, TIMER2 and the system
// tick timer.
type Timers struct{ b *Board }

var _ core.TimerDriver = (*Timers)(nil)

func (t *Timers) TimeBase(id core.TimerID, prescaler, period uint16, repeat uint8) {
	b := t.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("timer timebase %v psc=%d arr=%d rcr=%d", id, prescaler, period, repeat)
	st := &b.timers[id]
	st.Prescaler, st.Period, st.Repeat, st.rcr = prescaler, period, repeat, repeat
}

func (t *Timers) Enable(id core.TimerID, on bool) {
	b := t.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("timer enable %v %v", id, on)
	b.timers[id].Enabled = on
}

func (t *Timers) SetCounter(id core.TimerID, value uint16) {
	b := t.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("timer counter %v %d", id, value)
	b.timers[id].Counter = value
}

// ClearUpdate runs from the tick interrupt, so it stays out of the call
// log.
func (t *Timers) ClearUpdate(id core.TimerID) {
	b := t.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timers[id].Update = false
}

func (t *Timers) EnableUpdateInterrupt(id core.TimerID, on bool) {
	b := t.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("timer irq %v %v", id, on)
	b.timers[id].IRQ = on
}

func (t *Timers) SetPriority(id core.TimerID, level uint8) {
	b := t.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("timer priority %v %d", id, level)
	b.timers[id].Priority = level
}

// Timer returns a snapshot of a timer's registers.
func (b *Board) Timer(id core.TimerID) TimerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timers[id]
}
