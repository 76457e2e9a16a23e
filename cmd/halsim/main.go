// Command halsim runs the firmware application on the simulated board.
// Console output goes to stdout; bytes typed on stdin are fed to the UART.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"tinyhal/app"
	"tinyhal/sim"
)

var (
	baud     = flag.Uint("baud", 9600, "Console baud rate")
	blinkMs  = flag.Uint("blink", 500, "LED half period in ms (0 = off)")
	reportMs = flag.Uint("report", 1000, "ADC report period in ms (0 = off)")
	pwm      = flag.Uint("pwm", 0, "PWM compare value (0 = off)")
	adc      = flag.Uint("adc", 512, "Simulated ADC reading (0-1023)")
	tick     = flag.Duration("tick", time.Millisecond, "Simulated tick period")
	verbose  = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	board := sim.NewBoard()
	board.SetLogger(logger)
	board.SetConsole(os.Stdout)
	board.SetSamples(uint16(*adc))
	board.Install()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go board.Run(ctx, *tick)
	go feedConsole(board, logger)

	cfg := app.Config{
		ConsoleBaud: uint32(*baud),
		BlinkMs:     uint32(*blinkMs),
		ReportMs:    uint32(*reportMs),
		PWMPulse:    uint16(*pwm),
		Debug:       *verbose,
	}
	a, err := app.Setup(cfg)
	if err != nil {
		logger.WithError(err).Fatal("boot failed")
	}
	logger.WithFields(logrus.Fields{
		"baud":   cfg.ConsoleBaud,
		"blink":  cfg.BlinkMs,
		"report": cfg.ReportMs,
	}).Info("simulated board running")

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("main loop stopped")
		os.Exit(1)
	}
}

func feedConsole(board *sim.Board, logger *logrus.Logger) {
	r := bufio.NewReader(os.Stdin)
	for {
		c, err := r.ReadByte()
		if err != nil {
			logger.WithError(err).Debug("stdin closed")
			return
		}
		if c == '\n' || c == '\r' {
			continue
		}
		board.Inject(c)
	}
}
