// Command halmon records a board's console reports into a bbolt database
// and serves them, plus board commands, over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"tinyhal/host/board"
	"tinyhal/host/config"
	"tinyhal/host/console"
	"tinyhal/host/server"
	"tinyhal/host/store"
)

var (
	configPath = flag.String("config", "", "JSON config file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	addr       = flag.String("addr", "", "HTTP listen address (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger := logrus.New()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			logger.WithError(err).Fatal("unable to load config")
		}
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	logger.SetLevel(cfg.Level())
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	db, err := store.OpenBBolt(cfg.DBPath, 0666, nil)
	if err != nil {
		logger.WithError(err).Fatal("unable to open store")
	}
	defer db.Close()

	logger.WithField("device", cfg.Device).Info("connecting to board")
	b, err := board.Connect(cfg.Serial(), logger)
	if err != nil {
		logger.WithError(err).Fatal("unable to connect")
	}
	defer b.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go record(ctx, b, db, logger)
	if cfg.PollMs > 0 {
		go poll(ctx, b, time.Duration(cfg.PollMs)*time.Millisecond, logger)
	}

	srv := server.Server{Addr: cfg.Addr, Store: db, Board: b, Logger: logger}
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Error("http server stopped")
	}
}

func record(ctx context.Context, b *board.Board, db store.Store, logger *logrus.Logger) {
	err := b.Listen(ctx, board.Handler{
		OnSample: func(s console.Sample) {
			logger.WithFields(logrus.Fields{"raw": s.Raw, "volts": s.Volts, "tick": s.Tick}).Debug("sample")
			if err := db.PutSample(s); err != nil {
				logger.WithError(err).Error("unable to store sample")
			}
		},
		OnEvent: func(e console.Event) {
			if err := db.PutEvent(e); err != nil {
				logger.WithError(err).Error("unable to store event")
			}
		},
		OnLine: func(l string) {
			logger.WithField("line", l).Debug("console")
		},
	})
	if err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("console listener stopped")
	}
}

func poll(ctx context.Context, b *board.Board, every time.Duration, logger *logrus.Logger) {
	tk := time.NewTicker(every)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if err := b.RequestReport(); err != nil {
				logger.WithError(err).Warn("report request failed")
			}
		}
	}
}
