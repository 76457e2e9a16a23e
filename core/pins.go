package core

// PinID is a logical pin identifier. Drivers address pins through these
// identifiers only; the physical port/pin pair lives in the pin table.
type PinID uint8

const (
	PinLED PinID = iota

	// UART
	PinUARTRX
	PinUARTTX

	// ADC
	PinADCIn

	// PWM
	PinPWM

	PinIDMax // keep last
)

var pinNames = [PinIDMax]string{
	PinLED:    "LED",
	PinUARTRX: "UART_RX",
	PinUARTTX: "UART_TX",
	PinADCIn:  "ADC_IN",
	PinPWM:    "PWM",
}

func (id PinID) String() string {
	if id >= PinIDMax {
		return "pin(" + itoa(int(id)) + ")"
	}
	return pinNames[id]
}

// PinDesc is the physical location backing a logical pin.
type PinDesc struct {
	Port GPIOPort
	Mask PinMask
}

// pinTable is indexed by PinID. Its length is fixed by PinIDMax, so every
// identifier below the sentinel has exactly one entry.
var pinTable = [PinIDMax]PinDesc{
	PinLED:    {Port: PortB, Mask: Pin5},
	PinUARTRX: {Port: PortD, Mask: Pin6},
	PinUARTTX: {Port: PortD, Mask: Pin5},
	PinADCIn:  {Port: PortC, Mask: Pin4}, // AIN2
	PinPWM:    {Port: PortD, Mask: Pin3}, // TIM2_CH2
}

// LookupPin returns the descriptor for id, or IOResultInvalidPin if id is
// outside the table.
func LookupPin(id PinID) (PinDesc, error) {
	if id >= PinIDMax {
		return PinDesc{}, IOResultInvalidPin
	}
	return pinTable[id], nil
}
