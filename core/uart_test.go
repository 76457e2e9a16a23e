package core

import (
	"io"
	"strings"
	"testing"
)

func TestUARTInit(t *testing.T) {
	m := installMocks(t)

	if err := UARTInit(UART1, 115200); err != nil {
		t.Fatalf("UARTInit: %v", err)
	}
	tx, rx := pinTable[PinUARTTX], pinTable[PinUARTRX]
	if mode := m.gpio.modes[tx]; mode != ModeOutputHigh {
		t.Errorf("TX pin mode = %v", mode)
	}
	if mode := m.gpio.modes[rx]; mode != ModeInput {
		t.Errorf("RX pin mode = %v", mode)
	}
	want := UARTConfig{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: ParityNone, TX: true, RX: true}
	if m.uart.cfg != want {
		t.Errorf("config = %+v, want %+v", m.uart.cfg, want)
	}
	if m.uart.deinits != 1 || !m.uart.enabled {
		t.Errorf("deinits=%d enabled=%v", m.uart.deinits, m.uart.enabled)
	}
}

func TestUARTInitValidation(t *testing.T) {
	m := installMocks(t)

	if err := UARTInit(UARTID(1), 9600); err != UARTResultInvalidUART {
		t.Errorf("UARTInit(2) = %v", err)
	}
	if err := UARTInit(UART1, 0); err != UARTResultInvalidParam {
		t.Errorf("UARTInit(baud 0) = %v", err)
	}
	if m.gpio.callCount() != 0 || m.uart.deinits != 0 {
		t.Error("hardware touched on invalid init")
	}
}

func TestUARTSendWaitsForTXE(t *testing.T) {
	m := installMocks(t)
	m.uart.txBusy = 3

	if err := UARTSend(UART1, 'A'); err != nil {
		t.Fatal(err)
	}
	if m.uart.sent() != "A" {
		t.Errorf("sent %q", m.uart.sent())
	}
	if m.uart.txBusy != 0 {
		t.Errorf("TXE polled %d fewer times than busy", m.uart.txBusy)
	}
	if err := UARTSend(UARTID(3), 'B'); err != UARTResultInvalidUART {
		t.Errorf("UARTSend(3) = %v", err)
	}
}

func TestUARTRecv(t *testing.T) {
	m := installMocks(t)

	if UARTRxReady(UART1) {
		t.Fatal("RX ready with nothing received")
	}
	m.uart.inject('x')
	if !UARTRxReady(UART1) {
		t.Fatal("RX not ready after inject")
	}
	b, err := UARTRecv(UART1)
	if err != nil || b != 'x' {
		t.Errorf("UARTRecv = %q, %v", b, err)
	}
	if _, err := UARTRecv(UARTID(2)); err != UARTResultInvalidParam {
		t.Errorf("UARTRecv(2) = %v", err)
	}
}

func TestUARTRecvFaultOrder(t *testing.T) {
	tests := []struct {
		faults []UARTFlag
		want   UARTResult
	}{
		{[]UARTFlag{UARTFlagPE, UARTFlagOR}, UARTResultOverrun},
		{[]UARTFlag{UARTFlagFE, UARTFlagNF}, UARTResultNoise},
		{[]UARTFlag{UARTFlagPE, UARTFlagFE}, UARTResultFraming},
		{[]UARTFlag{UARTFlagPE}, UARTResultParity},
	}
	for _, tt := range tests {
		m := installMocks(t)
		m.uart.inject('z', 'k')
		for _, f := range tt.faults {
			m.uart.fault(f)
		}
		b, err := UARTRecv(UART1)
		if err != tt.want || b != 0 {
			t.Errorf("faults %v: got %q, %v; want %v", tt.faults, b, err, tt.want)
		}
		// The faulty byte is drained; the next one is clean.
		if b, err := UARTRecv(UART1); err != nil || b != 'k' {
			t.Errorf("after fault got %q, %v", b, err)
		}
	}
}

func TestUARTRecvTimeout(t *testing.T) {
	m := installMocks(t)

	if _, err := UARTRecvTimeout(UART1, 0); err != UARTResultTimeout {
		t.Errorf("empty receiver with zero timeout = %v", err)
	}
	m.uart.inject('q')
	if b, err := UARTRecvTimeout(UART1, 0); err != nil || b != 'q' {
		t.Errorf("got %q, %v", b, err)
	}
}

func TestPutchNewlineExpansion(t *testing.T) {
	m := installMocks(t)

	Putch('a')
	Putch('\n')
	if got := m.uart.sent(); got != "a\n\r" {
		t.Errorf("sent %q, want %q", got, "a\n\r")
	}
}

func TestPutsAndPutString(t *testing.T) {
	m := installMocks(t)

	if n := Puts([]byte("hi\n")); n != 3 {
		t.Errorf("Puts returned %d", n)
	}
	if n := PutString("ok"); n != 2 {
		t.Errorf("PutString returned %d", n)
	}
	if got := m.uart.sent(); got != "hi\n\rok" {
		t.Errorf("sent %q", got)
	}
}

func TestPrintfTruncates(t *testing.T) {
	m := installMocks(t)

	n := Printf("v=%d", 42)
	if n != 4 || m.uart.sent() != "v=42" {
		t.Errorf("Printf = %d, sent %q", n, m.uart.sent())
	}

	m.uart.tx = nil
	long := strings.Repeat("x", 40)
	n = Printf("%s", long)
	if n != printfBufSize-1 {
		t.Errorf("Printf returned %d, want %d", n, printfBufSize-1)
	}
	if got := m.uart.sent(); got != long[:printfBufSize-1] {
		t.Errorf("sent %q", got)
	}
}

func TestConsoleWriter(t *testing.T) {
	m := installMocks(t)

	var w io.Writer = Console{}
	if _, err := io.WriteString(w, "boot\n"); err != nil {
		t.Fatal(err)
	}
	if got := m.uart.sent(); got != "boot\n\r" {
		t.Errorf("sent %q", got)
	}
}

func TestPort(t *testing.T) {
	m := installMocks(t)
	p := &Port{ID: UART1}

	if p.Buffered() != 0 {
		t.Error("Buffered != 0 on empty receiver")
	}
	if n, err := p.Write([]byte("a\nb")); n != 3 || err != nil {
		t.Errorf("Write = %d, %v", n, err)
	}
	if got := m.uart.sent(); got != "a\nb" {
		t.Errorf("Port translated newlines: %q", got)
	}

	m.uart.inject('1', '2', '3')
	if p.Buffered() != 1 {
		t.Error("Buffered != 1 with data waiting")
	}
	buf := make([]byte, 2)
	n, err := p.Read(buf)
	if n != 2 || err != nil || string(buf) != "12" {
		t.Errorf("Read = %d, %v, %q", n, err, buf)
	}
	n, _ = p.Read(buf)
	if n != 1 || buf[0] != '3' {
		t.Errorf("second Read = %d, %q", n, buf[:n])
	}
	if n, err := p.Read(buf); n != 0 || err != nil {
		t.Errorf("empty Read = %d, %v", n, err)
	}

	m.uart.inject('e')
	m.uart.fault(UARTFlagFE)
	if _, err := p.Read(buf); err != UARTResultFraming {
		t.Errorf("Read with framing fault = %v", err)
	}
}
