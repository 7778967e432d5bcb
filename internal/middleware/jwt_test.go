package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/utils"
)

const testSecret = "test-secret"

func serveWith(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
    for i := len(mw) - 1; i >= 0; i-- {
        h = mw[i](h)
    }
    if err := h(c); err != nil {
        t.Fatalf("handler: %v", err)
    }
    return rec, c
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
    tok, err := utils.NewAccessToken(testSecret, 42, RoleCustomer, 5)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    rec, c := serveWith(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole(RoleCustomer))
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
    }
    if id, ok := UserID(c); !ok || id != 42 {
        t.Fatalf("UserID = %d, %v", id, ok)
    }
}

func TestJWTAuthRejects(t *testing.T) {
    expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub": 1, "role": RoleCustomer, "exp": time.Now().Add(-time.Minute).Unix(),
    })
    expiredStr, _ := expired.SignedString([]byte(testSecret))

    noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 1, "role": RoleCustomer})
    noExpStr, _ := noExp.SignedString([]byte(testSecret))

    wrongKey, _ := utils.NewAccessToken("other", 1, RoleCustomer, 5)

    badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub": "alice", "role": RoleCustomer, "exp": time.Now().Add(time.Minute).Unix(),
    })
    badSubStr, _ := badSub.SignedString([]byte(testSecret))

    tests := map[string]string{
        "no header":       "",
        "not bearer":      "Basic abc",
        "garbage":         "Bearer abc.def.ghi",
        "expired":         "Bearer " + expiredStr,
        "no expiry":       "Bearer " + noExpStr,
        "wrong key":       "Bearer " + wrongKey.Token,
        "non numeric sub": "Bearer " + badSubStr,
    }
    for name, header := range tests {
        rec, _ := serveWith(t, header, JWTAuth(testSecret))
        if rec.Code != http.StatusUnauthorized {
            t.Errorf("%s: status = %d, want 401", name, rec.Code)
        }
    }
}

func TestRequireRole(t *testing.T) {
    tok, _ := utils.NewAccessToken(testSecret, 7, RoleOwner, 5)
    rec, _ := serveWith(t, "Bearer "+tok.Token, JWTAuth(testSecret), RequireRole(RoleCustomer))
    if rec.Code != http.StatusForbidden {
        t.Fatalf("status = %d, want 403", rec.Code)
    }
}

func TestSubjectID(t *testing.T) {
    cases := []struct {
        in   interface{}
        want uint64
        ok   bool
    }{
        {float64(12), 12, true},
        {"12", 12, true},
        {float64(0), 0, false},
        {float64(-3), 0, false},
        {1.5, 0, false},
        {"x", 0, false},
        {nil, 0, false},
    }
    for _, c := range cases {
        got, ok := subjectID(c.in)
        if got != c.want || ok != c.ok {
            t.Errorf("subjectID(%v) = %d, %v", c.in, got, ok)
        }
    }
}
