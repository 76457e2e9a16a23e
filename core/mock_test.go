package core

import "sync"

// ----- GPIO -----

type gpioCall struct {
	op   string
	port GPIOPort
	mask PinMask
	mode DriveMode
}

type mockGPIO struct {
	mu    sync.Mutex
	calls []gpioCall
	latch [PortF + 1]PinMask // output data register
	input [PortF + 1]PinMask // externally applied levels
	modes map[PinDesc]DriveMode
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{modes: make(map[PinDesc]DriveMode)}
}

func (m *mockGPIO) Configure(port GPIOPort, mask PinMask, mode DriveMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gpioCall{op: "configure", port: port, mask: mask, mode: mode})
	m.modes[PinDesc{port, mask}] = mode
	switch mode {
	case ModeOutput, ModeOutputOpenDrain:
		m.latch[port] &^= mask
	case ModeOutputHigh:
		m.latch[port] |= mask
	}
}

func (m *mockGPIO) WriteHigh(port GPIOPort, mask PinMask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gpioCall{op: "high", port: port, mask: mask})
	m.latch[port] |= mask
}

func (m *mockGPIO) WriteLow(port GPIOPort, mask PinMask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gpioCall{op: "low", port: port, mask: mask})
	m.latch[port] &^= mask
}

func (m *mockGPIO) ReadInput(port GPIOPort, mask PinMask) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, gpioCall{op: "read", port: port, mask: mask})
	if mode, ok := m.modes[PinDesc{port, mask}]; ok && mode.IsOutput() {
		return m.latch[port]&mask != 0
	}
	return m.input[port]&mask != 0
}

func (m *mockGPIO) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockGPIO) lastCall() gpioCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return gpioCall{}
	}
	return m.calls[len(m.calls)-1]
}

// ----- Timer -----

type mockTimerState struct {
	prescaler, period uint16
	repeat            uint8
	enabled           bool
	counter           uint16
	pending           bool
	irq               bool
	priority          uint8
	clears            int
}

type mockTimer struct {
	mu     sync.Mutex
	timers [timerIDMax]mockTimerState
	calls  []string
}

func (m *mockTimer) TimeBase(id TimerID, prescaler, period uint16, repeat uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "timebase "+id.String())
	m.timers[id].prescaler = prescaler
	m.timers[id].period = period
	m.timers[id].repeat = repeat
}

func (m *mockTimer) Enable(id TimerID, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "enable "+id.String())
	m.timers[id].enabled = on
}

func (m *mockTimer) SetCounter(id TimerID, value uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "counter "+id.String())
	m.timers[id].counter = value
}

func (m *mockTimer) ClearUpdate(id TimerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[id].pending = false
	m.timers[id].clears++
}

func (m *mockTimer) EnableUpdateInterrupt(id TimerID, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "irq "+id.String())
	m.timers[id].irq = on
}

func (m *mockTimer) SetPriority(id TimerID, level uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers[id].priority = level
}

func (m *mockTimer) state(id TimerID) mockTimerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timers[id]
}

// ----- UART -----

type mockUART struct {
	mu      sync.Mutex
	cfg     UARTConfig
	enabled bool
	deinits int
	tx      []byte
	rx      []byte
	faults  map[UARTFlag]bool
	txBusy  int // number of TXE polls that report busy
}

func newMockUART() *mockUART {
	return &mockUART{faults: make(map[UARTFlag]bool)}
}

func (m *mockUART) DeInit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deinits++
	m.enabled = false
}

func (m *mockUART) Configure(cfg UARTConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return nil
}

func (m *mockUART) Enable(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = on
}

func (m *mockUART) Flag(f UARTFlag) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch f {
	case UARTFlagTXE:
		if m.txBusy > 0 {
			m.txBusy--
			return false
		}
		return true
	case UARTFlagRXNE:
		return len(m.rx) > 0
	default:
		return len(m.rx) > 0 && m.faults[f]
	}
}

func (m *mockUART) SendByte(b byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tx = append(m.tx, b)
}

func (m *mockUART) ReceiveByte() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rx) == 0 {
		return 0
	}
	b := m.rx[0]
	m.rx = m.rx[1:]
	for f := range m.faults {
		delete(m.faults, f)
	}
	return b
}

func (m *mockUART) inject(b ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx = append(m.rx, b...)
}

func (m *mockUART) fault(f UARTFlag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults[f] = true
}

func (m *mockUART) sent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.tx)
}

// ----- ADC -----

type mockADC struct {
	cfg       ADCConfig
	enabled   bool
	samples   []uint16
	next      int
	value     uint16
	eoc       bool
	waitPolls int // EOC polls that report busy per conversion
	pending   int
	starts    int
}

func (m *mockADC) DeInit() { m.enabled = false }

func (m *mockADC) Configure(cfg ADCConfig) error {
	m.cfg = cfg
	return nil
}

func (m *mockADC) Enable(on bool) { m.enabled = on }

func (m *mockADC) StartConversion() {
	m.starts++
	m.eoc = false
	m.pending = m.waitPolls
	if len(m.samples) > 0 {
		m.value = m.samples[m.next%len(m.samples)]
		m.next++
	}
}

func (m *mockADC) EndOfConversion() bool {
	if m.pending > 0 {
		m.pending--
		return false
	}
	m.eoc = true
	return true
}

func (m *mockADC) ConversionValue() uint16 {
	m.eoc = false
	return m.value
}

// ----- PWM -----

type mockPWM struct {
	pulses   map[PWMChannel]uint16
	disabled map[PWMChannel]bool
}

func newMockPWM() *mockPWM {
	return &mockPWM{pulses: make(map[PWMChannel]uint16), disabled: make(map[PWMChannel]bool)}
}

func (m *mockPWM) ConfigureOutputCompare(tm TimerID, ch PWMChannel, pulse uint16) {
	m.pulses[ch] = pulse
	m.disabled[ch] = false
}

func (m *mockPWM) SetCompare(tm TimerID, ch PWMChannel, pulse uint16) {
	m.pulses[ch] = pulse
}

func (m *mockPWM) DisableOutputCompare(tm TimerID, ch PWMChannel) {
	m.disabled[ch] = true
}

// ----- helpers -----

type mocks struct {
	gpio  *mockGPIO
	timer *mockTimer
	uart  *mockUART
	adc   *mockADC
	pwm   *mockPWM
}

// installMocks registers fresh mock drivers and restores the previous ones
// when the test ends.
func installMocks(t interface{ Cleanup(func()) }) *mocks {
	m := &mocks{
		gpio:  newMockGPIO(),
		timer: &mockTimer{},
		uart:  newMockUART(),
		adc:   &mockADC{},
		pwm:   newMockPWM(),
	}
	prevGPIO, prevTimer, prevUART, prevADC, prevPWM := gpioDriver, timerDriver, uartDriver, adcDriver, pwmDriver
	SetGPIODriver(m.gpio)
	SetTimerDriver(m.timer)
	SetUARTDriver(m.uart)
	SetADCDriver(m.adc)
	SetPWMDriver(m.pwm)
	t.Cleanup(func() {
		gpioDriver, timerDriver, uartDriver, adcDriver, pwmDriver = prevGPIO, prevTimer, prevUART, prevADC, prevPWM
	})
	return m
}
