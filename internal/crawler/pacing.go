package crawler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Pacing is the politeness delay level applied between fetches.
// Delays are drawn uniformly from a per-level range rather than fixed,
// because a constant inter-request interval is itself a bot signal.
type Pacing int

const (
	// PacingOff applies no delay. Only sensible against local or
	// staging targets.
	PacingOff Pacing = iota

	// PacingLow is a short delay for sites the operator controls.
	PacingLow

	// PacingMedium is the default: polite without making large crawls
	// impractical.
	PacingMedium

	// PacingHigh is for competitor scans where staying unnoticed
	// matters more than total run time.
	PacingHigh
)

// ParsePacing converts a pacing level name to a Pacing.
func ParsePacing(s string) (Pacing, error) {
	switch s {
	case "off":
		return PacingOff, nil
	case "low":
		return PacingLow, nil
	case "medium":
		return PacingMedium, nil
	case "high":
		return PacingHigh, nil
	default:
		return PacingOff, fmt.Errorf("unknown pacing level %q", s)
	}
}

// String returns the pacing level name.
func (p Pacing) String() string {
	switch p {
	case PacingOff:
		return "off"
	case PacingLow:
		return "low"
	case PacingMedium:
		return "medium"
	case PacingHigh:
		return "high"
	default:
		return "unknown"
	}
}

// DelayRange returns the [min, max] delay bounds for the level.
func (p Pacing) DelayRange() (time.Duration, time.Duration) {
	switch p {
	case PacingLow:
		return 500 * time.Millisecond, 1500 * time.Millisecond
	case PacingMedium:
		return 1 * time.Second, 3 * time.Second
	case PacingHigh:
		return 2 * time.Second, 5 * time.Second
	default:
		return 0, 0
	}
}

// Wait sleeps for a random duration in the level's range, returning
// early with the context error if the context is cancelled. PacingOff
// returns immediately.
func (p Pacing) Wait(ctx context.Context) error {
	minDelay, maxDelay := p.DelayRange()
	if maxDelay == 0 {
		return nil
	}

	delay := minDelay
	if span := maxDelay - minDelay; span > 0 {
		delay += rand.N(span)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
