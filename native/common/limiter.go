// Package common holds cross-cutting admission-control helpers shared by
// more than one native engine. SubmissionLimiter is the one instance this
// repository needs: a per-account rate limit on artifact submissions,
// independent of the fee check spec.md §4.3 already specifies. It replaces
// the teacher's native/common pause-flag/NHB-quota-cap pair (no
// SPEC_FULL.md component models a pausable module or a spend cap in NHB
// terms) with the same "narrow admission gate ahead of the real precondition
// chain" idea, now backed by a token bucket per caller.
package common

import (
	"errors"
	"sync"

	"golang.org/x/time/rate"

	"veles/crypto"
)

// ErrSubmissionRateLimited is returned when a caller has exhausted their
// submission allowance for the current window.
var ErrSubmissionRateLimited = errors.New("common: submission rate limit exceeded")

// SubmissionLimiter caps how many artifact submissions (footprint reports,
// project/batch proposals) a single AccountId may make per rolling window.
// This is an admission-control concern layered in front of the spec's own
// preconditions, not a replacement for them — spec.md's Non-goals exclude
// weight/gas accounting specifically, not submission rate limiting.
type SubmissionLimiter struct {
	mu            sync.Mutex
	limiters      map[crypto.AccountId]*rate.Limiter
	ratePerSecond rate.Limit
	burst         int
}

// NewSubmissionLimiter constructs a limiter allowing burst submissions
// immediately and ratePerSecond sustained submissions thereafter, per
// AccountId.
func NewSubmissionLimiter(ratePerSecond float64, burst int) *SubmissionLimiter {
	return &SubmissionLimiter{
		limiters:      make(map[crypto.AccountId]*rate.Limiter),
		ratePerSecond: rate.Limit(ratePerSecond),
		burst:         burst,
	}
}

// Allow reports whether caller may submit another artifact right now,
// consuming one token from their bucket if so.
func (l *SubmissionLimiter) Allow(caller crypto.AccountId) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	limiter, ok := l.limiters[caller]
	if !ok {
		limiter = rate.NewLimiter(l.ratePerSecond, l.burst)
		l.limiters[caller] = limiter
	}
	l.mu.Unlock()

	if !limiter.Allow() {
		return ErrSubmissionRateLimited
	}
	return nil
}
