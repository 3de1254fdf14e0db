package main

import (
	"sync/atomic"
	"time"
)

// clockSource is the narrow view of wall-clock time the core consumes.
// Time synchronization against the remote authority happens elsewhere;
// until it succeeds, timestamps are 0 and the local date is unknown.
// Scanning never blocks on the clock.
type clockSource interface {
	Synchronized() bool
	// LocalDate returns the local calendar date as YYMMDD, or "" when
	// the clock is not synchronized.
	LocalDate() string
	// EpochSeconds returns the current time, or 0 when not synchronized.
	EpochSeconds() int64
}

const localDateLayout = "060102"

// sysClock wraps the system clock behind a synchronization flag. The
// flag is written by the time-sync collaborator and read from both the
// polling and delivery goroutines.
type sysClock struct {
	synced atomic.Bool
}

func newSysClock() *sysClock {
	return &sysClock{}
}

// SetSynchronized is flipped by the time-sync collaborator once the
// remote time authority has been reached (and off again if it decides
// the clock has drifted beyond use).
func (c *sysClock) SetSynchronized(ok bool) {
	c.synced.Store(ok)
}

func (c *sysClock) Synchronized() bool {
	return c.synced.Load()
}

func (c *sysClock) LocalDate() string {
	if !c.synced.Load() {
		return ""
	}
	return time.Now().Format(localDateLayout)
}

func (c *sysClock) EpochSeconds() int64 {
	if !c.synced.Load() {
		return 0
	}
	return time.Now().Unix()
}
