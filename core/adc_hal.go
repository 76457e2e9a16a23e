package core

// ADCChannel selects the analog input routed to the converter.
type ADCChannel uint8

const (
	ADCChannel0 ADCChannel = iota
	ADCChannel1
	ADCChannel2 // AIN2, PinADCIn
	ADCChannel3
	ADCChannel4
	ADCChannel5
	ADCChannel6
)

// ADCPrescaler divides fCPU to produce the converter clock.
type ADCPrescaler uint8

const (
	ADCPrescalerD2 ADCPrescaler = iota
	ADCPrescalerD3
	ADCPrescalerD4
	ADCPrescalerD6
	ADCPrescalerD8
	ADCPrescalerD10
	ADCPrescalerD12
	ADCPrescalerD18
)

// ADCConfig is the configuration the core applies to the converter.
type ADCConfig struct {
	Continuous      bool // continuous rather than single conversion
	Channel         ADCChannel
	Prescaler       ADCPrescaler
	ExternalTrigger bool
	AlignRight      bool
	SchmittTrigger  bool // Schmitt triggers left enabled on all channels
}

// ADCDriver is the abstract ADC interface that core code uses.
type ADCDriver interface {
	// DeInit returns the converter registers to their reset values.
	DeInit()

	// Configure applies cfg. The converter stays off until Enable.
	Configure(cfg ADCConfig) error

	// Enable powers the converter on or off.
	Enable(on bool)

	// StartConversion starts one conversion on the configured channel.
	StartConversion()

	// EndOfConversion reports the EOC flag.
	EndOfConversion() bool

	// ConversionValue returns the last result (10 bits, right aligned) and
	// clears EOC.
	ConversionValue() uint16
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
