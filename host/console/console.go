// Package console parses the text the firmware prints on its console UART.
package console

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Sample is one ADC report line.
type Sample struct {
	Raw      uint16    `json:"raw"`
	Volts    float64   `json:"volts"`
	Tick     uint32    `json:"tick"`
	Received time.Time `json:"received"`
}

// Event is one line of an event dump.
type Event struct {
	Kind  string `json:"kind"`
	Tick  uint32 `json:"tick"`
	Value uint32 `json:"value"`
}

// Kind classifies a console line.
type Kind int

const (
	KindOther Kind = iota
	KindReport
	KindEvent
	KindBanner
)

const (
	reportPrefix = "adc="
	eventPrefix  = "[EVT] "
	eventMarker  = "==="
	// Banner is the first line the firmware prints after boot.
	Banner = "tinyhal ready"
)

// Clean strips the carriage returns the firmware appends to every newline.
func Clean(line string) string {
	return strings.Trim(line, "\r\n")
}

// Classify reports what kind of line line is.
func Classify(line string) Kind {
	line = Clean(line)
	switch {
	case line == Banner:
		return KindBanner
	case strings.HasPrefix(line, reportPrefix):
		return KindReport
	case strings.HasPrefix(line, eventPrefix) && !strings.Contains(line, eventMarker):
		return KindEvent
	default:
		return KindOther
	}
}

// ParseReport parses "adc=<raw> v=<V.VV> t=<tick>".
func ParseReport(line string) (Sample, error) {
	var s Sample
	fields, err := keyValues(Clean(line))
	if err != nil {
		return s, errors.Wrap(err, "report")
	}

	raw, err := field(fields, "adc", line)
	if err != nil {
		return s, err
	}
	n, err := strconv.ParseUint(raw, 10, 16)
	if err != nil || n > 1023 {
		return s, errors.Errorf("in %q: bad adc reading %q", line, raw)
	}
	s.Raw = uint16(n)

	v, err := field(fields, "v", line)
	if err != nil {
		return s, err
	}
	if s.Volts, err = strconv.ParseFloat(v, 64); err != nil {
		return s, errors.Wrapf(err, "in %q: voltage", line)
	}

	t, err := field(fields, "t", line)
	if err != nil {
		return s, err
	}
	tick, err := strconv.ParseUint(t, 10, 32)
	if err != nil {
		return s, errors.Wrapf(err, "in %q: tick", line)
	}
	s.Tick = uint32(tick)
	return s, nil
}

// ParseEvent parses "[EVT] <KIND> t=<tick> v=<value>".
func ParseEvent(line string) (Event, error) {
	var e Event
	line = Clean(line)
	if !strings.HasPrefix(line, eventPrefix) {
		return e, errors.Errorf("in %q: not an event line", line)
	}
	rest := strings.TrimPrefix(line, eventPrefix)
	sp := strings.IndexByte(rest, ' ')
	if sp <= 0 {
		return e, errors.Errorf("in %q: missing event kind", line)
	}
	e.Kind = rest[:sp]

	fields, err := keyValues(rest[sp+1:])
	if err != nil {
		return e, errors.Wrap(err, "event")
	}
	for _, k := range []string{"t", "v"} {
		s, err := field(fields, k, line)
		if err != nil {
			return e, err
		}
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return e, errors.Wrapf(err, "in %q: %s", line, k)
		}
		if k == "t" {
			e.Tick = uint32(n)
		} else {
			e.Value = uint32(n)
		}
	}
	return e, nil
}

func keyValues(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, f := range strings.Fields(s) {
		i := strings.IndexByte(f, '=')
		if i <= 0 {
			return nil, errors.Errorf("malformed field %q", f)
		}
		out[f[:i]] = f[i+1:]
	}
	return out, nil
}

func field(fields map[string]string, key, line string) (string, error) {
	v, ok := fields[key]
	if !ok || v == "" {
		return "", errors.Errorf("in %q: missing %s", line, key)
	}
	return v, nil
}
