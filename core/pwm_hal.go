package core

// PWMChannel is a timer capture/compare channel (1-based, as on the part).
type PWMChannel uint8

const (
	PWMChannel1 PWMChannel = 1 + iota
	PWMChannel2
	PWMChannel3
)

// PWMDriver is the abstract output-compare interface that core code uses.
// The timer's period comes from TimerInit; the driver only handles the
// compare channel.
type PWMDriver interface {
	// ConfigureOutputCompare sets the channel to PWM mode 1 with the given
	// compare value and enables its output.
	ConfigureOutputCompare(tm TimerID, ch PWMChannel, pulse uint16)

	// SetCompare updates the compare value of an active channel.
	SetCompare(tm TimerID, ch PWMChannel, pulse uint16)

	// DisableOutputCompare turns the channel output off.
	DisableOutputCompare(tm TimerID, ch PWMChannel)
}

// Global singleton used by core code.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
