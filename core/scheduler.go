package core

// Alarm is a main-loop callback due at a system tick.
type Alarm struct {
	WakeTime uint32
	Handler  func(*Alarm) uint8
	Next     *Alarm
}

// Handler results.
const (
	SFDone       = 0
	SFReschedule = 1
)

var alarmList *Alarm

// tickBefore reports whether a is earlier than b, treating the 32-bit tick
// space as circular (valid while the two are less than 2^31 apart).
func tickBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// ScheduleAlarm adds an alarm to the schedule. An alarm that is already
// scheduled must be cancelled first.
func ScheduleAlarm(a *Alarm) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertAlarm(a)
}

// CancelAlarm removes a from the schedule. It reports whether a was
// scheduled.
func CancelAlarm(a *Alarm) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for p := &alarmList; *p != nil; p = &(*p).Next {
		if *p == a {
			*p = a.Next
			a.Next = nil
			return true
		}
	}
	return false
}

// insertAlarm inserts an alarm in order of WakeTime; equal wake times keep
// insertion order.
func insertAlarm(a *Alarm) {
	if alarmList == nil || tickBefore(a.WakeTime, alarmList.WakeTime) {
		a.Next = alarmList
		alarmList = a
		return
	}

	current := alarmList
	for current.Next != nil && !tickBefore(a.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	a.Next = current.Next
	current.Next = a
}

// dispatchAlarms runs every alarm due at or before now.
func dispatchAlarms(now uint32) {
	for {
		state := disableInterrupts()
		a := alarmList
		if a == nil || tickBefore(now, a.WakeTime) {
			restoreInterrupts(state)
			return
		}
		alarmList = a.Next
		a.Next = nil
		restoreInterrupts(state)

		if a.Handler(a) == SFReschedule {
			ScheduleAlarm(a)
		}
	}
}

// ProcessAlarms runs due alarms against the system clock. Call it from the
// main loop, never from an ISR.
func ProcessAlarms() {
	dispatchAlarms(Now())
}

// PendingAlarms returns the number of scheduled alarms.
func PendingAlarms() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	n := 0
	for a := alarmList; a != nil; a = a.Next {
		n++
	}
	return n
}
