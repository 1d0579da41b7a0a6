package engine

import "time"

// TimeHandler tracks the budget of one search. The hard limit is enforced
// by the context deadline; the soft limit stops new iterations from
// starting once half the budget is gone.
type TimeHandler struct {
	start  time.Time
	budget time.Duration
}

func newTimeHandler(budget time.Duration) TimeHandler {
	return TimeHandler{start: time.Now(), budget: budget}
}

func (th *TimeHandler) Elapsed() time.Duration { return time.Since(th.start) }

// SoftTimeExceeded is false for unbounded searches.
func (th *TimeHandler) SoftTimeExceeded() bool {
	return th.budget > 0 && th.Elapsed() >= th.budget/2
}
