package sms

import (
	"fmt"
	"sync"
	"time"

	"github.com/notifykit/notifykit/pkg/notification"
)

// Usage is a point-in-time view of one user's rate-limit consumption.
type Usage struct {
	HourlySent         int     `json:"hourly_sent"`
	DailyCost          float64 `json:"daily_cost"`
	RemainingHourly    int     `json:"remaining_hourly"`
	RemainingDailyCost float64 `json:"remaining_daily_cost"`
}

// window tracks one user's rolling counters. Each ceiling has its own
// reset timestamp, advanced lazily the first time it is checked after
// the window has elapsed.
type window struct {
	hourlySent    int
	hourlyResetAt time.Time
	dailyCost     float64
	dailyResetAt  time.Time
}

// Limiter gates sends against two independent per-user ceilings: a
// rolling hourly send count and a rolling daily spend. Quota is
// reserved up front and handed back on transport failure, and both
// counters for a user are updated under a single lock so count and
// cost tracking cannot drift apart.
//
// The limiter is private to the text-message provider; no other
// component reads or mutates its state.
type Limiter struct {
	mu      sync.Mutex
	users   map[string]*window
	hourly  int
	daily   float64
	perSend float64

	now func() time.Time // clock injection for tests
}

// NewLimiter creates a limiter with the given ceilings and per-send cost.
func NewLimiter(hourlyLimit int, dailyCostLimit, costPerMessage float64) *Limiter {
	return &Limiter{
		users:   make(map[string]*window),
		hourly:  hourlyLimit,
		daily:   dailyCostLimit,
		perSend: costPerMessage,
		now:     time.Now,
	}
}

// user returns the caller's window with elapsed windows reset.
// Callers must hold l.mu.
func (l *Limiter) user(userID string) *window {
	now := l.now()
	w, ok := l.users[userID]
	if !ok {
		w = &window{
			hourlyResetAt: now.Add(time.Hour),
			dailyResetAt:  now.Add(24 * time.Hour),
		}
		l.users[userID] = w
	}
	if !now.Before(w.hourlyResetAt) {
		w.hourlySent = 0
		w.hourlyResetAt = now.Add(time.Hour)
	}
	if !now.Before(w.dailyResetAt) {
		w.dailyCost = 0
		w.dailyResetAt = now.Add(24 * time.Hour)
	}
	return w
}

// Reserve checks both ceilings for the user and, when both admit the
// send, consumes the quota in the same critical section. Checking and
// consuming must not be separate steps: concurrent sends for one user
// would otherwise both pass the check and overshoot the ceiling. A
// breach of either ceiling is a policy rejection, distinguishable from
// transport failures via the shared taxonomy.
//
// A reservation whose send fails in transit must be handed back with
// Release so the quota only counts messages that actually went out.
func (l *Limiter) Reserve(userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.user(userID)
	if w.hourlySent >= l.hourly {
		return fmt.Errorf("%w: hourly message ceiling of %d reached", notification.ErrPolicyRejection, l.hourly)
	}
	if w.dailyCost+l.perSend > l.daily {
		return fmt.Errorf("%w: daily cost ceiling of %.2f reached", notification.ErrPolicyRejection, l.daily)
	}
	w.hourlySent++
	w.dailyCost += l.perSend
	return nil
}

// Release hands back a reservation after a failed send. Counters never
// go below zero: a release landing after a lazy window reset is
// silently dropped.
func (l *Limiter) Release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.user(userID)
	if w.hourlySent > 0 {
		w.hourlySent--
	}
	w.dailyCost = max(0, w.dailyCost-l.perSend)
}

// Usage returns the user's current consumption against both ceilings.
func (l *Limiter) Usage(userID string) Usage {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.user(userID)
	return Usage{
		HourlySent:         w.hourlySent,
		DailyCost:          w.dailyCost,
		RemainingHourly:    max(0, l.hourly-w.hourlySent),
		RemainingDailyCost: max(0, l.daily-w.dailyCost),
	}
}
