package core

import (
	"time"
)

// Clock supplies the current time; components take one so results can be reproduced in tests
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() time.Time { return time.Now() }

// FixedClock returns a clock frozen at t
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
