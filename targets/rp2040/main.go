//go:build rp2040

package main

import (
	"context"
	"machine"

	"tinyhal/app"
	"tinyhal/core"
)

func main() {
	// Disable the watchdog so a previous session's timeout can't reset us.
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	timers := NewRPTimerDriver()
	core.SetGPIODriver(NewRPGPIODriver())
	core.SetTimerDriver(timers)
	core.SetUARTDriver(NewRPUARTDriver())
	core.SetADCDriver(NewRPAdcDriver())
	core.SetPWMDriver(NewRPPWMDriver(timers))

	a, err := app.Setup(app.DefaultConfig())
	if err != nil {
		// Nothing to report to without a console; blink fast forever.
		panicBlink()
	}
	_ = a.Run(context.Background())
}

func panicBlink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.Set(!led.Get())
		for i := 0; i < 200000; i++ {
		}
	}
}
