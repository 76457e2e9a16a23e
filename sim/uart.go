package sim

import (
	"github.com/sirupsen/logrus"

	"tinyhal/core"
)

// UART implements core.UARTDriver. Received bytes come from Inject;
// transmitted bytes go to the TX log and the console sink.
type UART struct{ b *Board }

var _ core.UARTDriver = (*UART)(nil)

func (u *UART) DeInit() {
	b := u.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("uart deinit")
	b.uartCfg = core.UARTConfig{}
	b.uartOn = false
}

func (u *UART) Configure(cfg core.UARTConfig) error {
	b := u.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("uart configure %d", cfg.BaudRate)
	b.uartCfg = cfg
	b.log.WithFields(logrus.Fields{
		"baud":      cfg.BaudRate,
		"data_bits": cfg.DataBits,
		"stop_bits": cfg.StopBits,
	}).Debug("sim: uart configured")
	return nil
}

func (u *UART) Enable(on bool) {
	b := u.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("uart enable %v", on)
	b.uartOn = on
}

// Flag reports TXE set at all times; the simulated shift register drains
// instantly. Fault flags only read set while a byte is waiting.
func (u *UART) Flag(f core.UARTFlag) bool {
	b := u.b
	b.mu.Lock()
	defer b.mu.Unlock()
	switch f {
	case core.UARTFlagTXE:
		return true
	case core.UARTFlagRXNE:
		return b.uartOn && len(b.rx) > 0
	default:
		return len(b.rx) > 0 && b.faults[f]
	}
}

func (u *UART) SendByte(c byte) {
	b := u.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tx = append(b.tx, c)
	if b.consoleSink != nil {
		_, _ = b.consoleSink.Write([]byte{c})
	}
}

// ReceiveByte pops the receive queue and clears any fault flags, as reading
// the data register does on the part.
func (u *UART) ReceiveByte() byte {
	b := u.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.rx) == 0 {
		return 0
	}
	c := b.rx[0]
	b.rx = b.rx[1:]
	for f := range b.faults {
		delete(b.faults, f)
	}
	return c
}

// Inject queues bytes on the UART receive line.
func (b *Board) Inject(p ...byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rx = append(b.rx, p...)
}

// InjectFault raises a line fault flag for the next received byte.
func (b *Board) InjectFault(f core.UARTFlag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[f] = true
}

// Transmitted returns everything sent on the UART so far.
func (b *Board) Transmitted() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.tx...)
}

// TakeTransmitted returns and clears the TX log.
func (b *Board) TakeTransmitted() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.tx
	b.tx = nil
	return out
}

// UARTConfig returns the active UART configuration and whether the UART is
// enabled.
func (b *Board) UARTConfig() (core.UARTConfig, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uartCfg, b.uartOn
}
