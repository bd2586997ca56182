package middleware

import (
	"testing"
	"time"
)

// TestRateLimiterAllowsWithinBudget tests the per-IP token bucket.
func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the budget should be rejected")
	}
	// A different IP has its own bucket
	if !rl.Allow("10.0.0.2") {
		t.Error("fresh IP should be allowed")
	}
}

// TestSessionStoreLifecycle tests create, get, and delete.
func TestSessionStoreLifecycle(t *testing.T) {
	ss := NewSessionStore()

	token, err := ss.Create()
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if token == "" {
		t.Fatal("token should be non-empty")
	}

	if _, ok := ss.Get(token); !ok {
		t.Error("fresh session should be valid")
	}
	if _, ok := ss.Get("unknown"); ok {
		t.Error("unknown token should be invalid")
	}

	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("deleted session should be invalid")
	}
}

// TestSessionExpiry tests the 24h session lifetime.
func TestSessionExpiry(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create()
	if err != nil {
		t.Fatal(err)
	}

	ss.mu.Lock()
	ss.sessions[token] = Session{CreatedAt: time.Now().Add(-25 * time.Hour)}
	ss.mu.Unlock()

	if _, ok := ss.Get(token); ok {
		t.Error("session older than 24h should be expired")
	}
}
