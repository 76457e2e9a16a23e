package core

// GPIOPort identifies a physical GPIO port on the part.
type GPIOPort uint8

const (
	PortA GPIOPort = iota
	PortB
	PortC
	PortD
	PortE
	PortF
)

func (p GPIOPort) String() string {
	if p > PortF {
		return "port(" + itoa(int(p)) + ")"
	}
	return "P" + string(rune('A'+p))
}

// PinMask selects one or more pins within a port (bit n = Pxn).
type PinMask uint8

const (
	Pin0 PinMask = 1 << iota
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
)

// DriveMode is the electrical configuration applied to a pin.
type DriveMode uint8

const (
	ModeInput           DriveMode = iota // floating input, no interrupt
	ModeInputPullUp                      // input with pull-up, no interrupt
	ModeOutput                           // push-pull output, starts low, fast
	ModeOutputOpenDrain                  // open-drain output, starts low, fast
	ModeOutputHigh                       // push-pull output, starts high, fast
)

// IsOutput reports whether the mode drives the pin.
func (m DriveMode) IsOutput() bool {
	return m >= ModeOutput && m <= ModeOutputHigh
}

func (m DriveMode) String() string {
	switch m {
	case ModeInput:
		return "input"
	case ModeInputPullUp:
		return "input-pullup"
	case ModeOutput:
		return "output"
	case ModeOutputOpenDrain:
		return "output-od"
	case ModeOutputHigh:
		return "output-high"
	default:
		return "unknown"
	}
}

// GPIODriver is the device-control interface the pin layer drives.
// Platform-specific implementations handle actual hardware control; they
// never see logical pin identifiers.
type GPIODriver interface {
	// Configure applies mode to the pins selected by mask on port.
	Configure(port GPIOPort, mask PinMask, mode DriveMode)

	// WriteHigh drives the selected pins high.
	WriteHigh(port GPIOPort, mask PinMask)

	// WriteLow drives the selected pins low.
	WriteLow(port GPIOPort, mask PinMask)

	// ReadInput returns the input level of the selected pin.
	ReadInput(port GPIOPort, mask PinMask) bool
}

// Global singleton used by core code.
var gpioDriver GPIODriver

// SetGPIODriver is called by target-specific code to register its driver.
func SetGPIODriver(d GPIODriver) {
	gpioDriver = d
}

// MustGPIO returns the configured driver or panics if missing.
func MustGPIO() GPIODriver {
	if gpioDriver == nil {
		panic("GPIO driver not configured")
	}
	return gpioDriver
}
