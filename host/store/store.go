// Package store persists what the host monitor records from a board.
package store

import (
	"errors"
	"io"

	"tinyhal/host/console"
)

// ErrNotFound is returned when a lookup finds nothing.
var ErrNotFound = errors.New("not found")

// Store describes a persistent storage engine for board recordings.
type Store interface {
	PutSample(s console.Sample) error
	// Samples returns up to limit of the most recent samples, oldest first.
	// A limit <= 0 returns every sample.
	Samples(limit int) ([]console.Sample, error)
	LatestSample() (console.Sample, error)

	PutEvent(e console.Event) error
	Events() ([]console.Event, error)

	io.Closer
}
