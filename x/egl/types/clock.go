package types

import "time"

// EpochClock maps wall-clock time onto epoch indices. Epoch zero starts at
// Start and every epoch lasts Length.
type EpochClock struct {
	Start  time.Time
	Length time.Duration
}

// NewEpochClock returns a clock for the given genesis time and epoch length.
func NewEpochClock(start time.Time, length time.Duration) EpochClock {
	return EpochClock{Start: start, Length: length}
}

// EpochAt returns the epoch that contains t. Times before Start belong to
// epoch zero.
func (c EpochClock) EpochAt(t time.Time) uint64 {
	if c.Length <= 0 || !t.After(c.Start) {
		return 0
	}
	return uint64(t.Sub(c.Start) / c.Length)
}

// StartOf returns the first instant of the epoch.
func (c EpochClock) StartOf(epoch uint64) time.Time {
	return c.Start.Add(time.Duration(epoch) * c.Length)
}

// EndOf returns the first instant after the epoch, which is the earliest time
// the epoch can be tallied.
func (c EpochClock) EndOf(epoch uint64) time.Time {
	return c.StartOf(epoch + 1)
}

// ReleaseDate returns the time at which a lockup of the given number of
// epochs, started at now, expires.
func (c EpochClock) ReleaseDate(now time.Time, lockupDuration uint64) time.Time {
	return now.Add(time.Duration(lockupDuration) * c.Length)
}
