package resilience

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "provider", Rate: 10, Burst: 5})

	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should have been allowed within burst", i)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "provider", Rate: 1, Burst: 2})

	rl.Allow()
	rl.Allow()

	if rl.Allow() {
		t.Error("expected rejection after burst exhausted")
	}
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "provider", Rate: 100, Burst: 1})

	if !rl.Allow() {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow() {
		t.Fatal("second immediate request should be rejected")
	}

	// At 100/s a token returns within ~10ms.
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow() {
		t.Error("expected token to refill after wait")
	}
}

func TestRateLimiter_OnLimitCallback(t *testing.T) {
	var limited string
	rl := NewRateLimiter(RateLimiterConfig{
		Name:  "provider",
		Rate:  1,
		Burst: 1,
		OnLimit: func(name string) {
			limited = name
		},
	})

	rl.Allow()
	rl.Allow()

	if limited != "provider" {
		t.Errorf("expected OnLimit called with 'provider', got %q", limited)
	}
}

func TestRateLimiter_WaitBlocksUntilToken(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "provider", Rate: 50, Burst: 1})

	rl.Allow() // drain

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// At 50/s the next token needs ~20ms.
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("expected Wait to block, returned after %v", elapsed)
	}
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "provider", Rate: 0.1, Burst: 1})

	rl.Allow() // drain; next token is ~10s away

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Error("expected context deadline error")
	}
}

func TestRateLimiter_DefaultsApplied(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "provider"})

	if rl.Rate() != 10.0 {
		t.Errorf("expected default rate 10.0, got %f", rl.Rate())
	}
	if rl.Burst() != 10 {
		t.Errorf("expected default burst = rate, got %d", rl.Burst())
	}
}
