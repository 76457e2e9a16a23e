package core

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// UARTID identifies a UART peripheral. Only UART1 exists on this part.
type UARTID uint8

const (
	UART1 UARTID = iota
	uartIDMax
)

// ConsoleUART carries Putch/Printf output.
const ConsoleUART = UART1

// UARTResult is the result code of a UART operation.
type UARTResult uint8

const (
	UARTResultOK UARTResult = iota
	UARTResultInvalidUART
	UARTResultInvalidParam
	UARTResultOverrun
	UARTResultNoise
	UARTResultFraming
	UARTResultParity
	UARTResultTimeout
	UARTResultError
)

func (r UARTResult) Error() string {
	switch r {
	case UARTResultOK:
		return "ok"
	case UARTResultInvalidUART:
		return "invalid uart"
	case UARTResultInvalidParam:
		return "invalid parameter"
	case UARTResultOverrun:
		return "overrun"
	case UARTResultNoise:
		return "noise"
	case UARTResultFraming:
		return "framing error"
	case UARTResultParity:
		return "parity error"
	case UARTResultTimeout:
		return "timeout"
	default:
		return "uart error"
	}
}

// printfBufSize matches the console formatting buffer; output is cut to
// printfBufSize-1 bytes.
const printfBufSize = 32

// UARTInit configures the UART pins through the pin table and brings the
// peripheral up at baud, 8N1, transmitter and receiver enabled.
func UARTInit(idx UARTID, baud uint32) error {
	if idx >= uartIDMax {
		return UARTResultInvalidUART
	}
	if baud == 0 {
		return UARTResultInvalidParam
	}
	if err := IOInit(PinUARTTX, ModeOutputHigh); err != nil {
		return UARTResultError
	}
	if err := IOInit(PinUARTRX, ModeInput); err != nil {
		return UARTResultError
	}

	d := MustUART()
	d.DeInit()
	if err := d.Configure(UARTConfig{
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
		TX:       true,
		RX:       true,
	}); err != nil {
		return UARTResultError
	}
	d.Enable(true)
	return nil
}

// UARTSend waits for the transmit register to empty, then writes ch.
func UARTSend(idx UARTID, ch byte) error {
	if idx >= uartIDMax {
		return UARTResultInvalidUART
	}
	d := MustUART()
	for !d.Flag(UARTFlagTXE) {
	}
	d.SendByte(ch)
	return nil
}

// UARTRxReady reports whether a received byte is waiting.
func UARTRxReady(idx UARTID) bool {
	if idx >= uartIDMax {
		return false
	}
	return MustUART().Flag(UARTFlagRXNE)
}

// UARTRecv blocks until a byte arrives. There is no timeout. Line faults are
// checked in the order overrun, noise, framing, parity; on a fault the data
// register is drained and the fault is returned instead of the byte.
func UARTRecv(idx UARTID) (byte, error) {
	if idx >= uartIDMax {
		return 0, UARTResultInvalidParam
	}
	for !UARTRxReady(idx) {
	}
	return uartTake()
}

// UARTRecvTimeout is UARTRecv bounded by timeout system ticks.
func UARTRecvTimeout(idx UARTID, timeout uint32) (byte, error) {
	if idx >= uartIDMax {
		return 0, UARTResultInvalidParam
	}
	start := Now()
	for !UARTRxReady(idx) {
		if Expired(start, timeout) {
			return 0, UARTResultTimeout
		}
	}
	return uartTake()
}

func uartTake() (byte, error) {
	d := MustUART()
	var fault error
	switch {
	case d.Flag(UARTFlagOR):
		fault = UARTResultOverrun
	case d.Flag(UARTFlagNF):
		fault = UARTResultNoise
	case d.Flag(UARTFlagFE):
		fault = UARTResultFraming
	case d.Flag(UARTFlagPE):
		fault = UARTResultParity
	}
	b := d.ReceiveByte()
	if fault != nil {
		return 0, fault
	}
	return b, nil
}

// Putch sends c on the console UART, expanding '\n' to "\n\r".
func Putch(c byte) {
	if c == '\n' {
		_ = UARTSend(ConsoleUART, '\n')
		_ = UARTSend(ConsoleUART, '\r')
		return
	}
	_ = UARTSend(ConsoleUART, c)
}

// Puts sends every byte of b through Putch and returns len(b).
func Puts(b []byte) int {
	for _, c := range b {
		Putch(c)
	}
	return len(b)
}

// PutString is Puts for a string.
func PutString(s string) int {
	for i := 0; i < len(s); i++ {
		Putch(s[i])
	}
	return len(s)
}

// Printf formats to the console. Output longer than the formatting buffer
// is truncated. It returns the number of bytes sent.
func Printf(format string, args ...any) int {
	s := fmt.Sprintf(format, args...)
	if len(s) > printfBufSize-1 {
		s = s[:printfBufSize-1]
	}
	return PutString(s)
}

// Console is an io.Writer over Putch.
type Console struct{}

func (Console) Write(p []byte) (int, error) {
	return Puts(p), nil
}

// Port exposes a UART as a byte stream without newline translation.
// Read never blocks; it returns whatever is already received.
type Port struct {
	ID UARTID
}

var _ drivers.UART = (*Port)(nil)

// Read copies received bytes into p until the receiver is empty. A line
// fault on a byte ends the read with that fault.
func (p *Port) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) && UARTRxReady(p.ID) {
		c, err := uartTake()
		if err != nil {
			return n, err
		}
		b[n] = c
		n++
	}
	return n, nil
}

// Write sends b byte by byte.
func (p *Port) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := UARTSend(p.ID, c); err != nil {
			return i, err
		}
	}
	return len(b), nil
}

// Buffered returns the number of received bytes waiting (0 or 1; the part
// has a single-byte receive register).
func (p *Port) Buffered() int {
	if UARTRxReady(p.ID) {
		return 1
	}
	return 0
}
