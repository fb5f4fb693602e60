package helper

import (
	"sync"
	"time"
)

const (
	maxLoginAttempts = 5
	loginBlockWindow = 15 * time.Minute
)

type loginAttempt struct {
	count int
	last  time.Time
}

// LoginLimiter throttles repeated login failures per email. State lives
// only in process memory and resets on restart. Best-effort: a race that
// under-counts an attempt is tolerable.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]loginAttempt
}

func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string]loginAttempt),
	}
}

// Blocked reports whether the email is throttled and, if so, how many
// whole minutes remain until the window opens again (rounded up).
func (l *LoginLimiter) Blocked(email string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[email]
	if !ok || a.count < maxLoginAttempts {
		return false, 0
	}

	elapsed := time.Since(a.last)
	if elapsed >= loginBlockWindow {
		return false, 0
	}

	remaining := int((loginBlockWindow - elapsed + time.Minute - 1) / time.Minute)
	return true, remaining
}

// Fail records one failed attempt and prunes entries whose window has
// long expired so the map stays bounded.
func (l *LoginLimiter) Fail(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, v := range l.attempts {
		if now.Sub(v.last) > loginBlockWindow {
			delete(l.attempts, k)
		}
	}

	a := l.attempts[email]
	l.attempts[email] = loginAttempt{count: a.count + 1, last: now}
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, email)
}
