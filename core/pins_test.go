package core

import (
	"errors"
	"testing"
)

func TestPinTableCoversEveryID(t *testing.T) {
	if len(pinTable) != int(PinIDMax) {
		t.Fatalf("pin table has %d entries, want %d", len(pinTable), PinIDMax)
	}
	seen := make(map[PinDesc]PinID)
	for id := PinID(0); id < PinIDMax; id++ {
		p, err := LookupPin(id)
		if err != nil {
			t.Fatalf("LookupPin(%v): %v", id, err)
		}
		if p.Mask == 0 {
			t.Errorf("%v has an empty pin mask", id)
		}
		if p.Mask&(p.Mask-1) != 0 {
			t.Errorf("%v selects more than one pin: %08b", id, p.Mask)
		}
		if other, dup := seen[p]; dup {
			t.Errorf("%v and %v share %+v", id, other, p)
		}
		seen[p] = id
	}
}

func TestPinIDString(t *testing.T) {
	if got := PinLED.String(); got != "LED" {
		t.Errorf("PinLED.String() = %q", got)
	}
	if got := PinID(9).String(); got != "pin(9)" {
		t.Errorf("PinID(9).String() = %q", got)
	}
}

func TestIOWriteRead(t *testing.T) {
	outputs := []DriveMode{ModeOutput, ModeOutputOpenDrain, ModeOutputHigh}
	for _, mode := range outputs {
		for id := PinID(0); id < PinIDMax; id++ {
			m := installMocks(t)

			if err := IOInit(id, mode); err != nil {
				t.Fatalf("IOInit(%v, %v): %v", id, mode, err)
			}
			p := pinTable[id]
			if c := m.gpio.lastCall(); c.op != "configure" || c.port != p.Port || c.mask != p.Mask || c.mode != mode {
				t.Fatalf("IOInit(%v) issued %+v", id, c)
			}

			if err := IOWrite(id, High); err != nil {
				t.Fatalf("IOWrite(%v, High): %v", id, err)
			}
			if v, err := IORead(id); err != nil || v != High {
				t.Errorf("%v/%v: after write 1 read %d, %v", id, mode, v, err)
			}

			if err := IOWrite(id, Low); err != nil {
				t.Fatalf("IOWrite(%v, Low): %v", id, err)
			}
			if v, err := IORead(id); err != nil || v != Low {
				t.Errorf("%v/%v: after write 0 read %d, %v", id, mode, v, err)
			}
		}
	}
}

func TestIOWriteNonZeroIsHigh(t *testing.T) {
	m := installMocks(t)
	_ = IOInit(PinLED, ModeOutput)

	if err := IOWrite(PinLED, Level(7)); err != nil {
		t.Fatal(err)
	}
	if c := m.gpio.lastCall(); c.op != "high" {
		t.Errorf("level 7 issued %q, want high", c.op)
	}
	if v, _ := IORead(PinLED); v != High {
		t.Errorf("read %d, want 1", v)
	}
}

func TestIOReadInput(t *testing.T) {
	m := installMocks(t)
	_ = IOInit(PinUARTRX, ModeInputPullUp)

	p := pinTable[PinUARTRX]
	m.gpio.input[p.Port] |= p.Mask
	if v, err := IORead(PinUARTRX); err != nil || v != High {
		t.Errorf("read %d, %v; want 1", v, err)
	}
	m.gpio.input[p.Port] &^= p.Mask
	if v, err := IORead(PinUARTRX); err != nil || v != Low {
		t.Errorf("read %d, %v; want 0", v, err)
	}
}

func TestInvalidPinTouchesNoHardware(t *testing.T) {
	ops := map[string]func(PinID) error{
		"init":  func(id PinID) error { return IOInit(id, ModeOutput) },
		"write": func(id PinID) error { return IOWrite(id, High) },
		"read": func(id PinID) error {
			_, err := IORead(id)
			return err
		},
		"readinto": func(id PinID) error {
			var v Level
			return IOReadInto(id, &v)
		},
		"toggle": IOToggle,
	}

	for _, id := range []PinID{PinIDMax, PinIDMax + 1, 200, 255} {
		for name, op := range ops {
			m := installMocks(t)
			err := op(id)
			if !errors.Is(err, IOResultInvalidPin) {
				t.Errorf("%s(%d) = %v, want InvalidPin", name, id, err)
			}
			if IOResultOf(err) != IOResultInvalidPin {
				t.Errorf("%s(%d): IOResultOf = %v", name, id, IOResultOf(err))
			}
			if n := m.gpio.callCount(); n != 0 {
				t.Errorf("%s(%d) made %d driver calls", name, id, n)
			}
		}
	}
}

func TestIOReadIntoNilDestination(t *testing.T) {
	m := installMocks(t)

	if err := IOReadInto(PinLED, nil); err != IOResultInvalidParam {
		t.Errorf("IOReadInto(nil) = %v, want InvalidParam", err)
	}
	if n := m.gpio.callCount(); n != 0 {
		t.Errorf("made %d driver calls", n)
	}
}

func TestIOReadIntoLeavesDestinationOnError(t *testing.T) {
	installMocks(t)

	v := Level(42)
	if err := IOReadInto(PinIDMax, &v); err != IOResultInvalidPin {
		t.Fatalf("err = %v", err)
	}
	if v != 42 {
		t.Errorf("destination overwritten with %d", v)
	}

	_ = IOInit(PinLED, ModeOutputHigh)
	if err := IOReadInto(PinLED, &v); err != nil || v != High {
		t.Errorf("IOReadInto = %d, %v", v, err)
	}
}

func TestIOToggle(t *testing.T) {
	for id := PinID(0); id < PinIDMax; id++ {
		installMocks(t)
		_ = IOInit(id, ModeOutput)

		before, _ := IORead(id)
		if err := IOToggle(id); err != nil {
			t.Fatalf("IOToggle(%v): %v", id, err)
		}
		mid, _ := IORead(id)
		if mid == before {
			t.Errorf("%v: toggle did not change level %d", id, before)
		}
		if err := IOToggle(id); err != nil {
			t.Fatalf("IOToggle(%v): %v", id, err)
		}
		after, _ := IORead(id)
		if after != before {
			t.Errorf("%v: two toggles gave %d, want %d", id, after, before)
		}
	}
}

func TestIOResultOf(t *testing.T) {
	tests := []struct {
		err  error
		want IOResult
	}{
		{nil, IOResultOK},
		{IOResultInvalidPin, IOResultInvalidPin},
		{IOResultInvalidParam, IOResultInvalidParam},
		{errors.New("other"), IOResultError},
	}
	for _, tt := range tests {
		if got := IOResultOf(tt.err); got != tt.want {
			t.Errorf("IOResultOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

// Reference scenario: LED=0 .. PWM=4, MAX=5.
func TestPinScenario(t *testing.T) {
	installMocks(t)

	if err := IOInit(5, ModeOutput); err != IOResultInvalidPin {
		t.Errorf("IOInit(5) = %v, want InvalidPin", err)
	}
	if err := IOInit(0, ModeOutput); err != nil {
		t.Errorf("IOInit(0) = %v, want ok", err)
	}
	if err := IOWrite(0, 1); err != nil {
		t.Errorf("IOWrite(0, 1) = %v, want ok", err)
	}
	if v, err := IORead(0); err != nil || v != 1 {
		t.Errorf("IORead(0) = %d, %v; want 1", v, err)
	}
}
