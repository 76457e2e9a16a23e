package core

// TimerID identifies a hardware timer.
type TimerID uint8

const (
	Timer1 TimerID = iota // advanced-control timer
	Timer2                // general-purpose timer, drives the PWM pin

	// TimerSys is the basic timer reserved for the software clock. It is not
	// addressable through the Timer* functions.
	TimerSys

	timerIDMax
)

func (t TimerID) String() string {
	switch t {
	case Timer1:
		return "TIMER_1"
	case Timer2:
		return "TIMER_2"
	case TimerSys:
		return "TIMER_SYS"
	default:
		return "timer(" + itoa(int(t)) + ")"
	}
}

// TimerDriver is the abstract timer interface that core code uses.
// Prescaler and period values are the raw register values (count-1).
type TimerDriver interface {
	// TimeBase programs prescaler, auto-reload period and repetition count.
	TimeBase(id TimerID, prescaler, period uint16, repeat uint8)

	// Enable starts or stops the counter.
	Enable(id TimerID, on bool)

	// SetCounter loads the counter register.
	SetCounter(id TimerID, value uint16)

	// ClearUpdate acknowledges a pending update interrupt.
	ClearUpdate(id TimerID)

	// EnableUpdateInterrupt arms the update (overflow) interrupt.
	EnableUpdateInterrupt(id TimerID, on bool)

	// SetPriority sets the software priority (0..3) of the update interrupt.
	SetPriority(id TimerID, level uint8)
}

// Global singleton used by core code.
var timerDriver TimerDriver

// SetTimerDriver is called by target-specific code to register its driver.
func SetTimerDriver(d TimerDriver) {
	timerDriver = d
}

// MustTimer returns the configured driver or panics if missing.
func MustTimer() TimerDriver {
	if timerDriver == nil {
		panic("timer driver not configured")
	}
	return timerDriver
}
