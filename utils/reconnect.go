package utils

import "time"

type ReconnectStrategy interface {
	NextDelay() time.Duration
	Reset()
}

// FixedInterval waits the same delay before every reconnection attempt.
// This is the strategy the fitness server expects from clients.
type FixedInterval struct {
	interval time.Duration
}

func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

func (f *FixedInterval) NextDelay() time.Duration {
	return f.interval
}

func (f *FixedInterval) Reset() {}

type ExponentialBackoff struct {
	initialDelay time.Duration
	currentDelay time.Duration
	maxDelay     time.Duration
}

func NewExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		initialDelay: 1 * time.Second,
		currentDelay: 1 * time.Second,
		maxDelay:     30 * time.Second,
	}
}

func (e *ExponentialBackoff) NextDelay() time.Duration {
	delay := e.currentDelay
	e.currentDelay *= 2
	if e.currentDelay > e.maxDelay {
		e.currentDelay = e.maxDelay
	}
	return delay
}

func (e *ExponentialBackoff) Reset() {
	e.currentDelay = e.initialDelay
}
