package booking

import (
	"errors"
	"testing"
	"time"
)

func TestStayOverlaps(t *testing.T) {
	a := Stay{CheckIn: day("2024-06-01"), CheckOut: day("2024-06-05")}
	tests := []struct {
		name string
		b    Stay
		want bool
	}{
		{"overlap on the 4th", Stay{day("2024-06-04"), day("2024-06-06")}, true},
		{"same day turnover", Stay{day("2024-06-05"), day("2024-06-07")}, false},
		{"ends on check-in", Stay{day("2024-05-28"), day("2024-06-01")}, false},
		{"contained", Stay{day("2024-06-02"), day("2024-06-03")}, true},
		{"contains", Stay{day("2024-05-30"), day("2024-06-10")}, true},
		{"identical", a, true},
		{"disjoint after", Stay{day("2024-07-01"), day("2024-07-02")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(a); got != tt.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStayValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Stay
		ok   bool
	}{
		{"three nights", Stay{day("2024-06-01"), day("2024-06-04")}, true},
		{"inverted", Stay{day("2024-06-04"), day("2024-06-01")}, false},
		{"empty", Stay{day("2024-06-01"), day("2024-06-01")}, false},
		{"under a night", Stay{day("2024-06-01"), day("2024-06-01").Add(12 * time.Hour)}, false},
		{"zero", Stay{}, false},
	}
	for _, tt := range tests {
		err := tt.s.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", tt.name, err)
		}
	}
}

func TestStayNights(t *testing.T) {
	s := Stay{CheckIn: day("2024-06-01").Add(14 * time.Hour), CheckOut: day("2024-06-04").Add(11 * time.Hour)}
	if n := s.Nights(); n != 2 {
		t.Fatalf("Nights() = %d, want 2", n)
	}
}
