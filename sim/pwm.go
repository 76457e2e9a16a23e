package sim

import "tinyhal/core"

// PWM implements core.PWMDriver by recording compare values.
type PWM struct{ b *Board }

var _ core.PWMDriver = (*PWM)(nil)

func (p *PWM) ConfigureOutputCompare(tm core.TimerID, ch core.PWMChannel, pulse uint16) {
	b := p.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("pwm configure %v ch%d %d", tm, ch, pulse)
	b.pwm[ch] = pwmChannel{pulse: pulse, on: true}
}

func (p *PWM) SetCompare(tm core.TimerID, ch core.PWMChannel, pulse uint16) {
	b := p.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("pwm compare %v ch%d %d", tm, ch, pulse)
	c := b.pwm[ch]
	c.pulse = pulse
	b.pwm[ch] = c
}

func (p *PWM) DisableOutputCompare(tm core.TimerID, ch core.PWMChannel) {
	b := p.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("pwm disable %v ch%d", tm, ch)
	c := b.pwm[ch]
	c.on = false
	b.pwm[ch] = c
}

// PWMOutput returns a channel's compare value and whether its output is on.
func (b *Board) PWMOutput(ch core.PWMChannel) (pulse uint16, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.pwm[ch]
	return c.pulse, c.on
}
