package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(3, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatalf("request over the limit should be rejected")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(1, time.Minute, func() time.Time { return now })

	if !rl.Allow("1.1.1.1") {
		t.Fatalf("first client should be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatalf("second client should not share the first client's count")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatalf("first client should now be over its limit")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	rl := NewRateLimiter(2, time.Minute, clock)

	rl.Allow("9.9.9.9")
	rl.Allow("9.9.9.9")
	if rl.Allow("9.9.9.9") {
		t.Fatalf("expected rejection inside the window")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow("9.9.9.9") {
		t.Fatalf("expected a fresh window after expiry")
	}
}

func TestRateLimiterSweepsExpiredVisitors(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(5, time.Minute, func() time.Time { return now })

	rl.Allow("1.1.1.1")
	rl.Allow("2.2.2.2")
	rl.Allow("3.3.3.3")

	now = now.Add(2 * time.Minute)
	rl.Allow("4.4.4.4")

	rl.mu.Lock()
	size := len(rl.visitors)
	rl.mu.Unlock()
	if size != 1 {
		t.Fatalf("expected expired visitors to be swept, have %d entries", size)
	}
}
