package core

import "sync/atomic"

// TimerResult is the result code of a timer operation.
type TimerResult uint8

const (
	TimerResultOK TimerResult = iota
	TimerResultInvalidTimer
	TimerResultInvalidParam
	TimerResultInvalidPriority
	TimerResultInvalidChannel
	TimerResultError
)

func (r TimerResult) Error() string {
	switch r {
	case TimerResultOK:
		return "ok"
	case TimerResultInvalidTimer:
		return "invalid timer"
	case TimerResultInvalidParam:
		return "invalid parameter"
	case TimerResultInvalidPriority:
		return "invalid priority"
	case TimerResultInvalidChannel:
		return "invalid channel"
	default:
		return "timer error"
	}
}

// MaxTimerPriority is the highest software interrupt priority level.
const MaxTimerPriority = 3

// Overflow counters for the user timers, written only from
// HandleTimerInterrupt.
var timerCounts [TimerSys]atomic.Uint32

func checkTimer(tm TimerID) error {
	if tm != Timer1 && tm != Timer2 {
		return TimerResultInvalidTimer
	}
	return nil
}

// TimerInit configures a user timer. prescale and period are counts (the
// hardware is loaded with count-1); repeat is the repetition count for
// Timer1 and ignored by Timer2. The counter is reset.
func TimerInit(tm TimerID, prescale, period uint16, repeat uint8) error {
	if err := checkTimer(tm); err != nil {
		return err
	}
	if prescale == 0 || period == 0 {
		return TimerResultInvalidParam
	}
	var rep uint8
	if repeat > 0 {
		rep = repeat - 1
	}
	MustTimer().TimeBase(tm, prescale-1, period-1, rep)
	return TimerReset(tm)
}

// TimerStart starts (enable=true) or stops a user timer.
func TimerStart(tm TimerID, enable bool) error {
	if err := checkTimer(tm); err != nil {
		return err
	}
	MustTimer().Enable(tm, enable)
	return nil
}

// TimerReset zeroes the counter of a user timer.
func TimerReset(tm TimerID) error {
	return TimerSetCounter(tm, 0)
}

// TimerSetCounter loads the counter of a user timer.
func TimerSetCounter(tm TimerID, value uint16) error {
	if err := checkTimer(tm); err != nil {
		return err
	}
	MustTimer().SetCounter(tm, value)
	return nil
}

// TimerIntConfig clears any pending update, arms the update interrupt and
// sets its priority (0..MaxTimerPriority).
func TimerIntConfig(tm TimerID, priority uint8) error {
	if priority > MaxTimerPriority {
		return TimerResultInvalidPriority
	}
	if err := checkTimer(tm); err != nil {
		return err
	}
	d := MustTimer()
	d.ClearUpdate(tm)
	d.EnableUpdateInterrupt(tm, true)
	d.SetPriority(tm, priority)
	return nil
}

// HandleTimerInterrupt is the update-interrupt entry point for Timer1 and
// Timer2. Target code calls it from the timer's ISR; it acknowledges the
// interrupt and bumps the timer's overflow counter.
func HandleTimerInterrupt(tm TimerID) {
	if checkTimer(tm) != nil {
		return
	}
	MustTimer().ClearUpdate(tm)
	timerCounts[tm].Add(1)
}

// TimerCount returns the number of update interrupts handled for tm.
func TimerCount(tm TimerID) uint32 {
	if checkTimer(tm) != nil {
		return 0
	}
	return timerCounts[tm].Load()
}
