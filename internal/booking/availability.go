package booking

import "time"

// Stay is a requested [CheckIn, CheckOut) window.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps applies the half-open test.  A stay ending on the day another
// begins does not overlap it.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && s.CheckOut.After(o.CheckIn)
}

// Nights is the number of whole days between check-in and check-out.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn) / (24 * time.Hour))
}

// Validate rejects empty or inverted windows and stays shorter than a night.
func (s Stay) Validate() error {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
		return invalid("check_in and check_out are required")
	}
	if !s.CheckIn.Before(s.CheckOut) {
		return invalid("check_in must be before check_out")
	}
	if s.Nights() < 1 {
		return invalid("stay must cover at least one night")
	}
	return nil
}

// UTC returns the stay with both bounds converted to UTC.
func (s Stay) UTC() Stay {
	return Stay{CheckIn: s.CheckIn.UTC(), CheckOut: s.CheckOut.UTC()}
}

// dateOf truncates t to midnight UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
