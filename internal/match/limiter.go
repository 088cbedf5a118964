package match

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterPruneSize = 1024

// sessionLimiter keeps one token bucket per session.
type sessionLimiter struct {
	mu       sync.Mutex
	perMin   int
	limiters map[string]*rate.Limiter
}

// newSessionLimiter allows perMinute calls per session with an equal burst.
// perMinute <= 0 disables limiting.
func newSessionLimiter(perMinute int) *sessionLimiter {
	return &sessionLimiter{perMin: perMinute, limiters: make(map[string]*rate.Limiter)}
}

// Allow consumes one token for id.
func (l *sessionLimiter) Allow(id string) bool {
	if l.perMin <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[id]
	if !ok {
		if len(l.limiters) >= limiterPruneSize {
			l.pruneLocked()
		}
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)
		l.limiters[id] = lim
	}
	return lim.Allow()
}

// pruneLocked drops buckets that have refilled completely; recreating them
// is indistinguishable from keeping them.
func (l *sessionLimiter) pruneLocked() {
	for id, lim := range l.limiters {
		if lim.Tokens() >= float64(l.perMin) {
			delete(l.limiters, id)
		}
	}
}
