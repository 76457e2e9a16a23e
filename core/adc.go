// Single-channel ADC on the PinADCIn pin.
package core

import "tinygo.org/x/drivers"

const (
	ADCMax          = 1023 // full-scale reading of the 10-bit converter
	ADCDefaultVRef  = 3.3  // volts at full scale
	ADCAverageCount = 10   // conversions averaged by ADCConvert
)

// Reference points for ADCToVoltage: adcYRef volts at reading adcXRef.
var (
	adcXRef int     = ADCMax
	adcYRef float32 = ADCDefaultVRef
)

// ADCIOInit puts the pin behind id into floating input mode.
func ADCIOInit(id PinID) error {
	return IOInit(id, ModeInput)
}

// ADCInitSingle configures single conversions on AIN2 at fCPU/18, right
// aligned, no external trigger, Schmitt triggers disabled, and enables the
// converter.
func ADCInitSingle() error {
	d := MustADC()
	d.DeInit()
	if err := d.Configure(ADCConfig{
		Continuous:      false,
		Channel:         ADCChannel2,
		Prescaler:       ADCPrescalerD18,
		ExternalTrigger: false,
		AlignRight:      true,
		SchmittTrigger:  false,
	}); err != nil {
		return err
	}
	d.Enable(true)
	return nil
}

// ADCStart starts a conversion.
func ADCStart() {
	MustADC().StartConversion()
}

// ADCResult returns the last conversion result.
func ADCResult() uint16 {
	return MustADC().ConversionValue()
}

// ADCConvertSingle runs one conversion and busy-waits for it. There is no
// timeout.
func ADCConvertSingle() uint16 {
	ADCStart()
	d := MustADC()
	for !d.EndOfConversion() {
	}
	return ADCResult()
}

// ADCConvert returns the mean of ADCAverageCount conversions.
func ADCConvert() uint16 {
	var total uint32
	for i := 0; i < ADCAverageCount; i++ {
		total += uint32(ADCConvertSingle())
	}
	return uint16(total / ADCAverageCount)
}

// ADCCalibrate resets the voltage reference points to full scale at the
// nominal reference voltage.
func ADCCalibrate() {
	adcXRef = ADCMax
	adcYRef = ADCDefaultVRef
}

// ADCToVoltage converts a reading to volts using the reference points.
func ADCToVoltage(v uint16) float32 {
	return adcYRef / float32(adcXRef) * float32(v)
}

// ADCSensor adapts the converter to the drivers.Sensor interface.
type ADCSensor struct {
	raw uint16
}

var _ drivers.Sensor = (*ADCSensor)(nil)

// Update takes an averaged reading when which includes drivers.Voltage.
func (s *ADCSensor) Update(which drivers.Measurement) error {
	if which&drivers.Voltage == 0 {
		return nil
	}
	s.raw = ADCConvert()
	return nil
}

// Raw returns the reading taken by the last Update.
func (s *ADCSensor) Raw() uint16 {
	return s.raw
}

// Voltage returns the last reading in microvolts.
func (s *ADCSensor) Voltage() int32 {
	return int32(ADCToVoltage(s.raw) * 1e6)
}
