package sim

import "tinyhal/core"

// ADC implements core.ADCDriver. Conversions return the samples set with
// SetSamples in turn, repeating the last one once the list runs out.
type ADC struct{ b *Board }

var _ core.ADCDriver = (*ADC)(nil)

func (a *ADC) DeInit() {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("adc deinit")
	b.adcCfg = core.ADCConfig{}
	b.adcOn = false
}

func (a *ADC) Configure(cfg core.ADCConfig) error {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("adc configure ch=%d", cfg.Channel)
	b.adcCfg = cfg
	return nil
}

func (a *ADC) Enable(on bool) {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("adc enable %v", on)
	b.adcOn = on
}

func (a *ADC) StartConversion() {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.adcOn {
		return
	}
	if n := len(b.adcSamples); n > 0 {
		i := b.adcNext
		if i >= n {
			i = n - 1
		} else {
			b.adcNext++
		}
		b.adcValue = b.adcSamples[i] & core.ADCMax
	}
	b.adcEOC = true
}

func (a *ADC) EndOfConversion() bool {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adcEOC
}

func (a *ADC) ConversionValue() uint16 {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adcEOC = false
	return b.adcValue
}

// SetSamples replaces the queue of conversion results.
func (b *Board) SetSamples(v ...uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adcSamples = append([]uint16(nil), v...)
	b.adcNext = 0
}

// ADCConfig returns the converter configuration and whether it is enabled.
func (b *Board) ADCConfig() (core.ADCConfig, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adcCfg, b.adcOn
}
