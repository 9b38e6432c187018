package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newLimitedRouter(rl *RateLimiter, tenantID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(TenantIDKey), tenantID)
		c.Next()
	})
	r.Use(rl.Middleware())
	r.POST("/auto-matches", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auto-matches", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_Local(t *testing.T) {
	rl := NewRateLimiterWithConfig(nil, "auto-match", 2, time.Minute)
	tenantA := newLimitedRouter(rl, uuid.New())
	tenantB := newLimitedRouter(rl, uuid.New())

	for i := 0; i < 2; i++ {
		if code := hit(tenantA); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := hit(tenantA); code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", code)
	}
	if code := hit(tenantB); code != http.StatusOK {
		t.Errorf("expected other tenants to be unaffected, got %d", code)
	}

}

func TestRateLimiter_LocalWindowExpires(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiterWithConfig(nil, "auto-match", 1, time.Minute)
	rl.now = func() time.Time { return now }

	tenantA := newLimitedRouter(rl, uuid.New())
	if code := hit(tenantA); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := hit(tenantA); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	now = now.Add(time.Minute + time.Second)
	if code := hit(newLimitedRouter(rl, uuid.New())); code != http.StatusOK {
		t.Fatalf("expected 200 for a new tenant, got %d", code)
	}
	if len(rl.entries) != 1 {
		t.Errorf("expected the finished window to be pruned, got %d entries", len(rl.entries))
	}
	if code := hit(tenantA); code != http.StatusOK {
		t.Errorf("expected a new window, got %d", code)
	}
}

func TestRateLimiter_Shared(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tenantID := uuid.New()
	first := newLimitedRouter(NewRateLimiterWithConfig(client, "auto-match", 2, time.Minute), tenantID)
	second := newLimitedRouter(NewRateLimiterWithConfig(client, "auto-match", 2, time.Minute), tenantID)

	if code := hit(first); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := hit(second); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := hit(first); code != http.StatusTooManyRequests {
		t.Errorf("expected the shared counter to block, got %d", code)
	}

	if ttl := mr.TTL("ratelimit:auto-match:" + tenantID.String()); ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected the counter to carry the window TTL, got %s", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if code := hit(second); code != http.StatusOK {
		t.Errorf("expected a new window, got %d", code)
	}
}
