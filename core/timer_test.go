package core

import "testing"

func TestTimerInit(t *testing.T) {
	m := installMocks(t)

	if err := TimerInit(Timer1, 16, 1000, 1); err != nil {
		t.Fatalf("TimerInit(Timer1): %v", err)
	}
	st := m.timer.state(Timer1)
	if st.prescaler != 15 || st.period != 999 || st.repeat != 0 {
		t.Errorf("Timer1 time base = %d/%d/%d, want 15/999/0", st.prescaler, st.period, st.repeat)
	}

	m.timer.SetCounter(Timer2, 77)
	if err := TimerInit(Timer2, 1, 500, 0); err != nil {
		t.Fatalf("TimerInit(Timer2): %v", err)
	}
	st = m.timer.state(Timer2)
	if st.prescaler != 0 || st.period != 499 {
		t.Errorf("Timer2 time base = %d/%d, want 0/499", st.prescaler, st.period)
	}
	if st.counter != 0 {
		t.Errorf("Timer2 counter = %d after init, want 0", st.counter)
	}
}

func TestTimerValidation(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
		want TimerResult
	}{
		{"init sys", func() error { return TimerInit(TimerSys, 1, 1, 0) }, TimerResultInvalidTimer},
		{"init unknown", func() error { return TimerInit(TimerID(9), 1, 1, 0) }, TimerResultInvalidTimer},
		{"init zero prescale", func() error { return TimerInit(Timer1, 0, 10, 0) }, TimerResultInvalidParam},
		{"init zero period", func() error { return TimerInit(Timer2, 8, 0, 0) }, TimerResultInvalidParam},
		{"start sys", func() error { return TimerStart(TimerSys, true) }, TimerResultInvalidTimer},
		{"reset unknown", func() error { return TimerReset(TimerID(5)) }, TimerResultInvalidTimer},
		{"counter unknown", func() error { return TimerSetCounter(TimerID(5), 1) }, TimerResultInvalidTimer},
		{"priority too high", func() error { return TimerIntConfig(Timer1, 4) }, TimerResultInvalidPriority},
		{"priority checked first", func() error { return TimerIntConfig(TimerID(7), 9) }, TimerResultInvalidPriority},
		{"int unknown", func() error { return TimerIntConfig(TimerID(7), 1) }, TimerResultInvalidTimer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := installMocks(t)
			err := tt.fn()
			if err != tt.want {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if len(m.timer.calls) != 0 {
				t.Errorf("driver touched: %v", m.timer.calls)
			}
		})
	}
}

func TestTimerStartStopAndCounter(t *testing.T) {
	m := installMocks(t)

	if err := TimerStart(Timer2, true); err != nil {
		t.Fatal(err)
	}
	if !m.timer.state(Timer2).enabled {
		t.Error("Timer2 not enabled")
	}
	if err := TimerSetCounter(Timer2, 1234); err != nil {
		t.Fatal(err)
	}
	if got := m.timer.state(Timer2).counter; got != 1234 {
		t.Errorf("counter = %d", got)
	}
	if err := TimerStart(Timer2, false); err != nil {
		t.Fatal(err)
	}
	if m.timer.state(Timer2).enabled {
		t.Error("Timer2 still enabled")
	}
}

func TestTimerIntConfig(t *testing.T) {
	m := installMocks(t)

	if err := TimerIntConfig(Timer1, MaxTimerPriority); err != nil {
		t.Fatal(err)
	}
	st := m.timer.state(Timer1)
	if !st.irq || st.priority != MaxTimerPriority || st.clears != 1 {
		t.Errorf("Timer1 irq=%v priority=%d clears=%d", st.irq, st.priority, st.clears)
	}
}

func TestHandleTimerInterrupt(t *testing.T) {
	m := installMocks(t)

	before1, before2 := TimerCount(Timer1), TimerCount(Timer2)
	HandleTimerInterrupt(Timer1)
	HandleTimerInterrupt(Timer1)
	HandleTimerInterrupt(Timer2)
	HandleTimerInterrupt(TimerSys)

	if got := TimerCount(Timer1) - before1; got != 2 {
		t.Errorf("Timer1 count advanced %d, want 2", got)
	}
	if got := TimerCount(Timer2) - before2; got != 1 {
		t.Errorf("Timer2 count advanced %d, want 1", got)
	}
	if got := TimerCount(TimerSys); got != 0 {
		t.Errorf("TimerCount(TimerSys) = %d, want 0", got)
	}
	if got := m.timer.state(Timer1).clears; got != 2 {
		t.Errorf("Timer1 acknowledged %d times", got)
	}
	if got := m.timer.state(TimerSys).clears; got != 0 {
		t.Errorf("TimerSys acknowledged through HandleTimerInterrupt")
	}
}
