package pipeline

import "time"

// Sleeper abstracts voluntary suspension so tests can observe exact wait
// durations without real time. Waits run to completion once started;
// cancellation is only observed between items.
type Sleeper interface {
	Sleep(d time.Duration)
}

// StandardSleeper waits on the wall clock.
type StandardSleeper struct{}

func (StandardSleeper) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
