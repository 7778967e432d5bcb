package middleware

// identity.go holds helpers that read the authenticated caller from the
// Echo context.  JWTAuth stores the user id as uint64 under "user_id".

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's id.  ok is false for guests.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    return id, ok && id > 0
}

// subjectID converts the "sub" claim into a user id.  Tokens carry it as a
// JSON number; string subjects are accepted as well.
func subjectID(v interface{}) (uint64, bool) {
    switch t := v.(type) {
    case float64:
        if t <= 0 || t != float64(uint64(t)) {
            return 0, false
        }
        return uint64(t), true
    case string:
        n, err := strconv.ParseUint(t, 10, 64)
        return n, err == nil && n > 0
    }
    return 0, false
}

// userKey identifies the caller in rate limit keys.  It returns "anon"
// when no user is authenticated.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}
