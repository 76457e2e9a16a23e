package sim

import "tinyhal/core"

// GPIO implements core.GPIODriver over the board's port registers.
type GPIO struct{ b *Board }

var _ core.GPIODriver = (*GPIO)(nil)

func (g *GPIO) Configure(p core.GPIOPort, mask core.PinMask, mode core.DriveMode) {
	b := g.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("gpio configure %v %#02x %v", p, uint8(mask), mode)

	pt := &b.ports[p]
	switch mode {
	case core.ModeInput:
		pt.ddr &^= mask
		pt.pull &^= mask
	case core.ModeInputPullUp:
		pt.ddr &^= mask
		pt.pull |= mask
	case core.ModeOutput:
		pt.ddr |= mask
		pt.od &^= mask
		pt.odr &^= mask
	case core.ModeOutputOpenDrain:
		pt.ddr |= mask
		pt.od |= mask
		pt.odr &^= mask
	case core.ModeOutputHigh:
		pt.ddr |= mask
		pt.od &^= mask
		pt.odr |= mask
	}
}

func (g *GPIO) WriteHigh(p core.GPIOPort, mask core.PinMask) {
	b := g.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("gpio high %v %#02x", p, uint8(mask))
	b.ports[p].odr |= mask
}

func (g *GPIO) WriteLow(p core.GPIOPort, mask core.PinMask) {
	b := g.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("gpio low %v %#02x", p, uint8(mask))
	b.ports[p].odr &^= mask
}

// ReadInput returns the level on the pin. Push-pull outputs read back their
// latch. An open-drain output reads low while driven low and otherwise sees
// the line. Inputs see the line.
func (g *GPIO) ReadInput(p core.GPIOPort, mask core.PinMask) bool {
	b := g.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("gpio read %v %#02x", p, uint8(mask))
	return b.levelLocked(p, mask)
}

// lineLocked is the external level on a pin: whatever Drive set, or high
// through a pull-up or the released open-drain line when nothing drives it.
func (b *Board) lineLocked(p core.GPIOPort, mask core.PinMask) bool {
	pt := &b.ports[p]
	if pt.driven&mask != 0 {
		return pt.idr&mask != 0
	}
	return pt.pull&mask != 0 || pt.od&mask != 0
}

func (b *Board) levelLocked(p core.GPIOPort, mask core.PinMask) bool {
	pt := &b.ports[p]
	switch {
	case pt.ddr&mask != 0 && pt.od&mask == 0:
		return pt.odr&mask != 0
	case pt.ddr&mask != 0:
		return pt.odr&mask != 0 && b.lineLocked(p, mask)
	default:
		return b.lineLocked(p, mask)
	}
}

// Drive applies an external level to a pin.
func (b *Board) Drive(id core.PinID, high bool) error {
	desc, err := core.LookupPin(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	pt := &b.ports[desc.Port]
	pt.driven |= desc.Mask
	if high {
		pt.idr |= desc.Mask
	} else {
		pt.idr &^= desc.Mask
	}
	return nil
}

// Release stops driving a pin externally.
func (b *Board) Release(id core.PinID) error {
	desc, err := core.LookupPin(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ports[desc.Port].driven &^= desc.Mask
	return nil
}

// Level reports the level on a pin without logging a driver call.
func (b *Board) Level(id core.PinID) (bool, error) {
	desc, err := core.LookupPin(id)
	if err != nil {
		return false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levelLocked(desc.Port, desc.Mask), nil
}
