package core

// pwmRoute maps a timer channel to the logical pin it drives. Only the
// channels listed here have a pin on this board.
type pwmRoute struct {
	tm  TimerID
	ch  PWMChannel
	pin PinID
}

var pwmRoutes = [...]pwmRoute{
	{tm: Timer2, ch: PWMChannel2, pin: PinPWM},
}

func findPWMRoute(tm TimerID, ch PWMChannel) (pwmRoute, error) {
	if err := checkTimer(tm); err != nil {
		return pwmRoute{}, err
	}
	for _, r := range pwmRoutes {
		if r.tm == tm && r.ch == ch {
			return r, nil
		}
	}
	return pwmRoute{}, TimerResultInvalidChannel
}

// PWMInit configures the channel's pin as a push-pull output and starts PWM
// with the given compare value. The timer itself is set up with TimerInit
// and TimerStart.
func PWMInit(tm TimerID, ch PWMChannel, pulse uint16) error {
	r, err := findPWMRoute(tm, ch)
	if err != nil {
		return err
	}
	if err := IOInit(r.pin, ModeOutput); err != nil {
		return TimerResultError
	}
	MustPWM().ConfigureOutputCompare(tm, ch, pulse)
	return nil
}

// PWMSetPulse changes the compare value (high time in timer counts).
func PWMSetPulse(tm TimerID, ch PWMChannel, pulse uint16) error {
	if _, err := findPWMRoute(tm, ch); err != nil {
		return err
	}
	MustPWM().SetCompare(tm, ch, pulse)
	return nil
}

// PWMStop disables the channel output.
func PWMStop(tm TimerID, ch PWMChannel) error {
	if _, err := findPWMRoute(tm, ch); err != nil {
		return err
	}
	MustPWM().DisableOutputCompare(tm, ch)
	return nil
}
