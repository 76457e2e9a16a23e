package console

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Kind
	}{
		{"tinyhal ready", KindBanner},
		{"\rtinyhal ready\r\n", KindBanner},
		{"adc=1 v=0.00 t=5", KindReport},
		{"[EVT] BOOT t=0 v=9600", KindEvent},
		{"[EVT] === event dump ===", KindOther},
		{"l: toggle led", KindOther},
		{"", KindOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestParseReport(t *testing.T) {
	s, err := ParseReport("\radc=512 v=1.65 t=4294967295")
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 512 || s.Volts != 1.65 || s.Tick != 4294967295 {
		t.Errorf("sample = %+v", s)
	}
}

func TestParseReportErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"adc=1024 v=3.30 t=1", "bad adc reading"},
		{"adc=x v=3.30 t=1", "bad adc reading"},
		{"adc=5 t=1", "missing v"},
		{"adc=5 v=abc t=1", "voltage"},
		{"adc=5 v=1.0 t=-1", "tick"},
		{"adc=5 v=1.0", "missing t"},
		{"adc=5 junk", "malformed field"},
	}
	for _, tt := range tests {
		_, err := ParseReport(tt.line)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("ParseReport(%q) = %v, want error containing %q", tt.line, err, tt.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	e, err := ParseEvent("[EVT] UART_FAULT t=120 v=5\r")
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != "UART_FAULT" || e.Tick != 120 || e.Value != 5 {
		t.Errorf("event = %+v", e)
	}

	for _, bad := range []string{"BOOT t=1 v=2", "[EVT] ", "[EVT] BOOT t=1", "[EVT] BOOT t=1 v=x"} {
		if _, err := ParseEvent(bad); err == nil {
			t.Errorf("ParseEvent(%q) succeeded", bad)
		}
	}
}
