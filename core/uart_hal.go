package core

// UARTFlag is a UART status flag.
type UARTFlag uint8

const (
	UARTFlagTXE  UARTFlag = iota // transmit data register empty
	UARTFlagRXNE                 // receive data register not empty
	UARTFlagOR                   // overrun error
	UARTFlagNF                   // noise
	UARTFlagFE                   // framing error
	UARTFlagPE                   // parity error
)

// UARTParity selects the parity mode.
type UARTParity uint8

const (
	ParityNone UARTParity = iota
	ParityEven
	ParityOdd
)

// UARTConfig is the frame configuration applied by UARTDriver.Configure.
type UARTConfig struct {
	BaudRate uint32
	DataBits uint8
	StopBits uint8
	Parity   UARTParity
	TX       bool // transmitter enabled
	RX       bool // receiver enabled
}

// UARTDriver is the abstract UART interface that core code uses.
type UARTDriver interface {
	// DeInit returns the peripheral registers to their reset values.
	DeInit()

	// Configure applies the frame format and baud rate.
	Configure(cfg UARTConfig) error

	// Enable switches the peripheral on or off.
	Enable(on bool)

	// Flag reports a status flag.
	Flag(f UARTFlag) bool

	// SendByte writes the transmit data register.
	SendByte(b byte)

	// ReceiveByte reads the receive data register, clearing RXNE and the
	// error flags.
	ReceiveByte() byte
}

// Global singleton used by core code.
var uartDriver UARTDriver

// SetUARTDriver is called by target-specific code to register its driver.
func SetUARTDriver(d UARTDriver) {
	uartDriver = d
}

// MustUART returns the configured driver or panics if missing.
func MustUART() UARTDriver {
	if uartDriver == nil {
		panic("UART driver not configured")
	}
	return uartDriver
}
