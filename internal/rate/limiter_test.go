package rate

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/ridepass/internal/cache"
)

func TestFixedWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l := NewFixedWindow(cache.NewMemory("rl", time.Minute), 2, time.Minute)
	l.Now = func() time.Time { return now }

	for i := 1; i <= 2; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil || !res.Allowed {
			t.Fatalf("hit %d: allowed=%v err=%v", i, res.Allowed, err)
		}
	}
	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil || res.Allowed {
		t.Fatalf("third hit should be limited: %+v %v", res, err)
	}
	if res.RetryAfter != time.Minute {
		t.Fatalf("retry after = %v", res.RetryAfter)
	}

	// otra key no comparte ventana
	if res, _ := l.Allow(ctx, "5.6.7.8"); !res.Allowed {
		t.Fatalf("other key should be allowed")
	}

	// ventana siguiente
	now = now.Add(time.Minute)
	if res, _ := l.Allow(ctx, "1.2.3.4"); !res.Allowed || res.CurrentHits != 1 {
		t.Fatalf("new window should reset: %+v", res)
	}
}
