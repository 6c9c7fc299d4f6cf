package use_cases

import "time"

type Clock interface {
	NowUTC() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) NowUTC() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a plain function, mostly for fixed test clocks.
type ClockFunc func() time.Time

func (f ClockFunc) NowUTC() time.Time {
	return f().UTC()
}
