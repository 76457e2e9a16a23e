// Pin-level GPIO access through the logical pin table.
package core

// IOResult is the result code of a pin operation. Success is reported as a
// nil error; every other code is returned as the error value itself.
type IOResult uint8

const (
	IOResultOK IOResult = iota
	IOResultInvalidPin
	IOResultInvalidParam
	IOResultError
)

func (r IOResult) Error() string {
	switch r {
	case IOResultOK:
		return "ok"
	case IOResultInvalidPin:
		return "invalid pin"
	case IOResultInvalidParam:
		return "invalid parameter"
	default:
		return "io error"
	}
}

// IOResultOf maps an error returned by a pin operation back to its code.
// Errors that did not come from the pin layer map to IOResultError.
func IOResultOf(err error) IOResult {
	if err == nil {
		return IOResultOK
	}
	if r, ok := err.(IOResult); ok {
		return r
	}
	return IOResultError
}

// Level is a logical pin level.
type Level uint8

const (
	Low  Level = 0
	High Level = 1
)

// IOInit configures the physical pin behind id in the given mode.
func IOInit(id PinID, mode DriveMode) error {
	p, err := LookupPin(id)
	if err != nil {
		return err
	}
	MustGPIO().Configure(p.Port, p.Mask, mode)
	return nil
}

// IOWrite drives the pin high for any non-zero level and low otherwise.
func IOWrite(id PinID, level Level) error {
	p, err := LookupPin(id)
	if err != nil {
		return err
	}
	if level != Low {
		MustGPIO().WriteHigh(p.Port, p.Mask)
	} else {
		MustGPIO().WriteLow(p.Port, p.Mask)
	}
	return nil
}

// IORead returns the current input level (Low or High) of the pin.
func IORead(id PinID) (Level, error) {
	p, err := LookupPin(id)
	if err != nil {
		return Low, err
	}
	if MustGPIO().ReadInput(p.Port, p.Mask) {
		return High, nil
	}
	return Low, nil
}

// IOReadInto stores the pin level in *dst. Nothing is written to dst when
// an error is returned.
func IOReadInto(id PinID, dst *Level) error {
	if dst == nil {
		return IOResultInvalidParam
	}
	v, err := IORead(id)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// IOToggle inverts the pin level. If the read fails its error is returned
// unchanged and the pin is not written.
func IOToggle(id PinID) error {
	v, err := IORead(id)
	if err != nil {
		return err
	}
	return IOWrite(id, v^High)
}
