// Package server exposes recorded board data and board commands over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"tinyhal/host/store"
)

// Commander sends console commands to the board.
type Commander interface {
	ToggleLED() error
	RequestReport() error
	RequestEvents() error
}

type Server struct {
	Addr string

	Store  store.Store
	Board  Commander
	Logger *logrus.Logger
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := httprouter.New()

	mux.HandlerFunc(http.MethodGet, "/samples", s.samples)
	mux.HandlerFunc(http.MethodGet, "/samples/latest", s.latestSample)
	mux.HandlerFunc(http.MethodGet, "/events", s.events)

	mux.HandlerFunc(http.MethodPost, "/rpc/toggle", s.toggle)
	mux.HandlerFunc(http.MethodPost, "/rpc/report", s.report)
	mux.HandlerFunc(http.MethodPost, "/rpc/events", s.dumpEvents)

	return mux
}

// Run serves until ctx is done or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       time.Second * 15,
		ReadHeaderTimeout: time.Second * 15,
		IdleTimeout:       time.Second * 30,
		MaxHeaderBytes:    4096,
	}

	listenErrs := make(chan error, 1)
	go func() {
		s.Logger.WithField("addr", s.Addr).Info("serving http")
		listenErrs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-listenErrs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
