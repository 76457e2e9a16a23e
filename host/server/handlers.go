package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"tinyhal/host/store"
)

func (s *Server) samples(res http.ResponseWriter, req *http.Request) {
	limit := 0
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond(res, fmt.Errorf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = n
	}

	samples, err := s.Store.Samples(limit)
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, samples, http.StatusOK)
}

func (s *Server) latestSample(res http.ResponseWriter, req *http.Request) {
	sample, err := s.Store.LatestSample()
	if errors.Is(err, store.ErrNotFound) {
		respond(res, err, http.StatusNotFound)
		return
	}
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, sample, http.StatusOK)
}

func (s *Server) events(res http.ResponseWriter, req *http.Request) {
	events, err := s.Store.Events()
	if err != nil {
		respond(res, err, http.StatusInternalServerError)
		return
	}

	respond(res, events, http.StatusOK)
}

func (s *Server) command(res http.ResponseWriter, name string, send func(Commander) error) {
	if s.Board == nil {
		respond(res, errors.New("no board connected"), http.StatusServiceUnavailable)
		return
	}
	if err := send(s.Board); err != nil {
		s.Logger.WithError(err).WithField("command", name).Warn("board command failed")
		respond(res, err, http.StatusBadGateway)
		return
	}

	s.Logger.WithField("command", name).Debug("board command sent")
	respond(res, nil, http.StatusAccepted)
}

func (s *Server) toggle(res http.ResponseWriter, req *http.Request) {
	s.command(res, "toggle", Commander.ToggleLED)
}

func (s *Server) report(res http.ResponseWriter, req *http.Request) {
	s.command(res, "report", Commander.RequestReport)
}

func (s *Server) dumpEvents(res http.ResponseWriter, req *http.Request) {
	s.command(res, "events", Commander.RequestEvents)
}
