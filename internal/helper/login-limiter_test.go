package helper

import (
	"testing"
	"time"
)

func TestLimiterBlocksAfterMaxFailures(t *testing.T) {
	l := NewLoginLimiter()
	email := "someone@church.com"

	for i := 0; i < maxLoginAttempts-1; i++ {
		l.Fail(email)
		if blocked, _ := l.Blocked(email); blocked {
			t.Fatalf("blocked after %d failures", i+1)
		}
	}

	l.Fail(email)
	blocked, minutes := l.Blocked(email)
	if !blocked {
		t.Fatal("not blocked after max failures")
	}
	if minutes <= 0 || minutes > 15 {
		t.Errorf("remaining minutes = %d, want within (0, 15]", minutes)
	}
}

func TestLimiterResetClears(t *testing.T) {
	l := NewLoginLimiter()
	email := "someone@church.com"

	for i := 0; i < maxLoginAttempts; i++ {
		l.Fail(email)
	}
	l.Reset(email)

	if blocked, _ := l.Blocked(email); blocked {
		t.Error("still blocked after Reset")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := NewLoginLimiter()
	email := "someone@church.com"

	for i := 0; i < maxLoginAttempts; i++ {
		l.Fail(email)
	}

	// Age the last failure past the window.
	l.mu.Lock()
	a := l.attempts[email]
	a.last = time.Now().Add(-loginBlockWindow - time.Minute)
	l.attempts[email] = a
	l.mu.Unlock()

	if blocked, _ := l.Blocked(email); blocked {
		t.Error("still blocked after window elapsed")
	}
}

func TestLimiterPrunesStaleEntries(t *testing.T) {
	l := NewLoginLimiter()

	l.Fail("old@church.com")
	l.mu.Lock()
	a := l.attempts["old@church.com"]
	a.last = time.Now().Add(-loginBlockWindow - time.Hour)
	l.attempts["old@church.com"] = a
	l.mu.Unlock()

	l.Fail("new@church.com")

	l.mu.Lock()
	_, ok := l.attempts["old@church.com"]
	l.mu.Unlock()
	if ok {
		t.Error("stale entry survived pruning")
	}
}

func TestLimiterTracksEmailsIndependently(t *testing.T) {
	l := NewLoginLimiter()

	for i := 0; i < maxLoginAttempts; i++ {
		l.Fail("a@church.com")
	}

	if blocked, _ := l.Blocked("b@church.com"); blocked {
		t.Error("unrelated email blocked")
	}
}
