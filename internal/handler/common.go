package handler // handler defines http handlers

import (
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/booking"
)

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

// getUserID extracts the user_id set by JWTAuth and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        if t > 0 {
            return t, nil
        }
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// parseDate accepts YYYY-MM-DD or RFC3339 and returns the time in UTC.
func parseDate(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if t, err := time.Parse(dateLayout, s); err == nil {
        return t, nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, errors.New("dates must be YYYY-MM-DD or RFC3339")
    }
    return t.UTC(), nil
}

// parseStay parses a check-in/check-out pair.  Which field failed is
// reported in the message.
func parseStay(in, out string) (time.Time, time.Time, string) {
    checkIn, err := parseDate(in)
    if err != nil {
        return time.Time{}, time.Time{}, "invalid check_in: " + err.Error()
    }
    checkOut, err := parseDate(out)
    if err != nil {
        return time.Time{}, time.Time{}, "invalid check_out: " + err.Error()
    }
    return checkIn, checkOut, ""
}

// writeError maps booking engine errors to HTTP responses.  Anything that
// is not a booking error is logged and reported as 500 without detail.
func writeError(c echo.Context, err error) error {
    var status int
    switch {
    case errors.Is(err, booking.ErrNotFound):
        status = http.StatusNotFound
    case errors.Is(err, booking.ErrConflict):
        status = http.StatusConflict
    case errors.Is(err, booking.ErrForbidden):
        status = http.StatusForbidden
    case errors.Is(err, booking.ErrInvalid):
        status = http.StatusBadRequest
    default:
        c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
    body := echo.Map{"error": err.Error()}
    var be *booking.Error
    if errors.As(err, &be) {
        if be.Reason != "" {
            body["error"] = be.Reason
        }
        if be.Entity != "" {
            body["entity"] = be.Entity
            body["id"] = be.ID
        }
    }
    return c.JSON(status, body)
}
