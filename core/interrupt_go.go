//go:build !tinygo

package core

// State stands in for the saved interrupt mask on hosted builds, where the
// simulated ISR runs as a goroutine and only touches atomics.
type State uintptr

func disableInterrupts() State {
	return 0
}

func restoreInterrupts(State) {}
