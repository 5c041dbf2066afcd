package utils

import (
	"testing"
	"time"
)

func TestFixedInterval(t *testing.T) {
	s := NewFixedInterval(3 * time.Second)
	for i := 0; i < 5; i++ {
		if got := s.NextDelay(); got != 3*time.Second {
			t.Errorf("delay %d: got %s, expected 3s", i, got)
		}
	}
	s.Reset()
	if got := s.NextDelay(); got != 3*time.Second {
		t.Errorf("delay after reset: got %s, expected 3s", got)
	}
}

func TestExponentialBackoff(t *testing.T) {
	s := NewExponentialBackoff()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
		30 * time.Second,
		30 * time.Second,
	}
	for i, want := range expected {
		if got := s.NextDelay(); got != want {
			t.Errorf("delay %d: got %s, expected %s", i, got, want)
		}
	}

	s.Reset()
	if got := s.NextDelay(); got != 1*time.Second {
		t.Errorf("delay after reset: got %s, expected 1s", got)
	}
}
