package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event is a tick-stamped record kept for post-mortem dumps.
type Event struct {
	Kind  uint8  // Event kind code
	Tick  uint32 // System tick when recorded
	Value uint32 // Kind-dependent value
}

// Event kind codes
const (
	EvtBoot       = 1 // boot complete, Value = console baud
	EvtUARTFault  = 2 // UART line fault, Value = UARTResult
	EvtPinFault   = 3 // pin operation failed, Value = PinID
	EvtADCReading = 4 // ADC report, Value = raw reading
	EvtCommand    = 5 // console command, Value = command byte
)

const EventRingSize = 16

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled.
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent stamps an event with the current tick and stores it in the
// ring, overwriting the oldest entry.
func RecordEvent(kind uint8, value uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	eventRing[eventRingHead] = Event{Kind: kind, Tick: Now(), Value: value}
	eventRingHead = (eventRingHead + 1) % EventRingSize
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(eventRingHead+i)%EventRingSize]
		if evt.Kind == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func eventName(kind uint8) string {
	switch kind {
	case EvtBoot:
		return "BOOT"
	case EvtUARTFault:
		return "UART_FAULT"
	case EvtPinFault:
		return "PIN_FAULT"
	case EvtADCReading:
		return "ADC"
	case EvtCommand:
		return "CMD"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents writes the event ring through the debug writer.
func DumpEvents() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[EVT] === event dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVT] " + eventName(evt.Kind) +
			" t=" + utoa(evt.Tick) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[EVT] === end ===")
}

// ClearEvents empties the event ring.
func ClearEvents() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
