// Package app is the portable firmware: it boots the HAL, blinks the LED,
// reports the ADC on the console and answers single-byte console commands.
// Targets register their drivers, then call Setup and Run.
package app

import (
	"context"
	"strconv"
	"time"

	"tinygo.org/x/drivers"

	"tinyhal/core"
)

// Config holds the application settings.
type Config struct {
	ConsoleBaud uint32 // console UART baud rate
	BlinkMs     uint32 // LED half period, 0 disables blinking
	ReportMs    uint32 // ADC report period, 0 disables periodic reports
	PWMPulse    uint16 // compare value on the PWM pin, 0 leaves it off
	Debug       bool   // print DebugPrintln messages on the console
}

// DefaultConfig returns the settings used by the shipped firmware.
func DefaultConfig() Config {
	return Config{
		ConsoleBaud: 9600,
		BlinkMs:     500,
		ReportMs:    1000,
	}
}

// PWM time base: 16 MHz / 16 = 1 MHz counts, 1000 counts = 1 kHz.
const (
	pwmPrescale = 16
	pwmPeriod   = 1000
)

// idleSleep is the main loop yield between polls.
const idleSleep = 10 * time.Microsecond

const banner = "tinyhal ready\n"

const help = "l: toggle led\nr: report adc\ne: dump events\n?: help\n"

// App is a booted firmware instance.
type App struct {
	cfg    Config
	sensor core.ADCSensor
	blink  core.Alarm
	report core.Alarm

	reports uint32
}

// Setup runs the boot sequence: clock, LED, console, ADC, optional PWM,
// then schedules the blink and report alarms.
func Setup(cfg Config) (*App, error) {
	a := &App{cfg: cfg}

	core.ClockInit()

	core.SetDebugWriter(func(s string) {
		core.PutString(s)
		core.Putch('\n')
	})
	core.SetDebugEnabled(cfg.Debug)

	if err := core.IOInit(core.PinLED, core.ModeOutput); err != nil {
		core.RecordEvent(core.EvtPinFault, uint32(core.PinLED))
		return nil, err
	}
	if err := core.UARTInit(core.ConsoleUART, cfg.ConsoleBaud); err != nil {
		core.RecordEvent(core.EvtUARTFault, uint32(uartCode(err)))
		return nil, err
	}
	if err := core.ADCIOInit(core.PinADCIn); err != nil {
		core.RecordEvent(core.EvtPinFault, uint32(core.PinADCIn))
		return nil, err
	}
	if err := core.ADCInitSingle(); err != nil {
		return nil, err
	}
	core.ADCCalibrate()

	if cfg.PWMPulse > 0 {
		if err := startPWM(cfg.PWMPulse); err != nil {
			return nil, err
		}
	}

	core.PutString(banner)
	core.RecordEvent(core.EvtBoot, cfg.ConsoleBaud)
	core.DebugPrintln("boot: t=" + strconv.FormatUint(uint64(core.Now()), 10))

	now := core.Now()
	if cfg.BlinkMs > 0 {
		a.blink = core.Alarm{WakeTime: now + cfg.BlinkMs, Handler: a.blinkEvent}
		core.ScheduleAlarm(&a.blink)
	}
	if cfg.ReportMs > 0 {
		a.report = core.Alarm{WakeTime: now + cfg.ReportMs, Handler: a.reportEvent}
		core.ScheduleAlarm(&a.report)
	}
	return a, nil
}

func startPWM(pulse uint16) error {
	if err := core.TimerInit(core.Timer2, pwmPrescale, pwmPeriod, 0); err != nil {
		return err
	}
	if err := core.PWMInit(core.Timer2, core.PWMChannel2, pulse); err != nil {
		return err
	}
	return core.TimerStart(core.Timer2, true)
}

// Stop cancels the application's alarms.
func (a *App) Stop() {
	core.CancelAlarm(&a.blink)
	core.CancelAlarm(&a.report)
}

// Run is the main loop. It returns ctx.Err() once ctx is done.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		a.Step()
		time.Sleep(idleSleep)
	}
}

// Step runs due alarms and handles at most one console byte.
func (a *App) Step() {
	core.ProcessAlarms()
	a.pollConsole()
}

// Reports returns the number of report lines printed.
func (a *App) Reports() uint32 {
	return a.reports
}

func (a *App) blinkEvent(al *core.Alarm) uint8 {
	if err := core.IOToggle(core.PinLED); err != nil {
		core.RecordEvent(core.EvtPinFault, uint32(core.PinLED))
		return core.SFDone
	}
	al.WakeTime += a.cfg.BlinkMs
	return core.SFReschedule
}

func (a *App) reportEvent(al *core.Alarm) uint8 {
	a.Report()
	al.WakeTime += a.cfg.ReportMs
	return core.SFReschedule
}

// Report takes an averaged ADC reading and prints
// "adc=<raw> v=<V.VV> t=<tick>" on the console.
func (a *App) Report() {
	_ = a.sensor.Update(drivers.Voltage)
	raw := a.sensor.Raw()
	core.Printf("adc=%d v=%.2f t=%d\n", raw, core.ADCToVoltage(raw), core.Now())
	core.RecordEvent(core.EvtADCReading, uint32(raw))
	a.reports++
}

func (a *App) pollConsole() {
	if !core.UARTRxReady(core.ConsoleUART) {
		return
	}
	c, err := core.UARTRecv(core.ConsoleUART)
	if err != nil {
		core.RecordEvent(core.EvtUARTFault, uint32(uartCode(err)))
		core.DebugPrintln("uart: " + err.Error())
		return
	}
	a.command(c)
}

func (a *App) command(c byte) {
	switch c {
	case 'l':
		if err := core.IOToggle(core.PinLED); err != nil {
			core.RecordEvent(core.EvtPinFault, uint32(core.PinLED))
		}
	case 'r':
		a.Report()
	case 'e':
		core.DumpEvents()
	case '?':
		core.PutString(help)
	default:
		return
	}
	core.RecordEvent(core.EvtCommand, uint32(c))
}

func uartCode(err error) core.UARTResult {
	if r, ok := err.(core.UARTResult); ok {
		return r
	}
	return core.UARTResultError
}

