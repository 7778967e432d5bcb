package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/config"
)

func TestPayloadRoundTripKeepsHeaders(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":1}`))
    if err != nil {
        t.Fatalf("encodePayload: %v", err)
    }
    status, got, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || string(body) != `{"id":1}` || got.Get("Content-Type") != "application/json" {
        t.Fatalf("decoded %d %v %q %v", status, got, body, ok)
    }
    if _, _, _, ok := decodePayload(bs[:5]); ok {
        t.Fatal("short payload must not decode")
    }
}

func TestCacheKeyIncludesQuery(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
    e := echo.New()
    key := func(target string) string {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        c.SetPath("/v1/rooms/:id/availability")
        return cacheKeyFrom(cfg, c)
    }
    a := key("/v1/rooms/1/availability?check_in=2024-06-01&check_out=2024-06-03")
    b := key("/v1/rooms/1/availability?check_in=2024-06-02&check_out=2024-06-03")
    if a == b {
        t.Fatal("different queries must produce different keys")
    }
}

func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
    rec, _ := serveWith(t, "",
        NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
        NewRedisCache(config.CacheConfig{Enabled: true}, nil),
    )
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d", rec.Code)
    }
}

func TestRateKeyUsesAuthenticatedUser(t *testing.T) {
    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/bookings", nil), httptest.NewRecorder())
    if got := buildRateKey(cfg, c); got != "rl:user:anon" {
        t.Fatalf("guest key = %q", got)
    }
    c.Set(ctxUserID, uint64(9))
    if got := buildRateKey(cfg, c); got != "rl:user:9" {
        t.Fatalf("user key = %q", got)
    }
    if !isWrite(http.MethodDelete) || isWrite(http.MethodGet) {
        t.Fatal("isWrite misclassifies methods")
    }
}
