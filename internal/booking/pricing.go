package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// QuoteLine is the priced share of one room in a stay.
type QuoteLine struct {
	RoomID           uint64
	Nights           int
	PricePerNight    int64
	BaseCents        int64
	DiscountID       uint64 // 0 when no discount applied
	DiscountPercent  uint8
	DiscountedNights int
	TotalCents       int64
}

// Quote holds the totals for a set of rooms over one stay.
type Quote struct {
	Stay             Stay
	Lines            []QuoteLine
	TotalBeforeCents int64
	TotalAfterCents  int64
}

// PricingCalculator prices rooms for a stay.  A discount applies only to
// the nights that fall inside its window; the remaining nights are charged
// at the full nightly rate.
type PricingCalculator struct {
	discounts DiscountLookup
}

// NewPricingCalculator returns a calculator backed by the given lookup.
func NewPricingCalculator(discounts DiscountLookup) *PricingCalculator {
	return &PricingCalculator{discounts: discounts}
}

// Price computes the before and after discount totals for rooms over stay.
// The stay must already be validated.
func (p *PricingCalculator) Price(ctx context.Context, rooms []model.Room, stay Stay) (Quote, error) {
	q := Quote{Stay: stay, Lines: make([]QuoteLine, 0, len(rooms))}
	nights := stay.Nights()
	for _, r := range rooms {
		line := QuoteLine{
			RoomID:        r.ID,
			Nights:        nights,
			PricePerNight: r.PricePerNightCents,
			BaseCents:     r.PricePerNightCents * int64(nights),
		}
		line.TotalCents = line.BaseCents

		d, err := p.discounts.FindValidDiscount(ctx, r.ID, stay.CheckIn, stay.CheckOut)
		if err != nil {
			return Quote{}, fmt.Errorf("find discount for room %d: %w", r.ID, err)
		}
		if d != nil && d.Percent > 0 {
			k := coveredNights(*d, stay)
			if k > 0 {
				pct := int64(d.Percent)
				if pct > 100 {
					pct = 100
				}
				full := r.PricePerNightCents * int64(nights-k)
				reduced := percentOf(r.PricePerNightCents*int64(k), 100-pct)
				line.DiscountID = d.ID
				line.DiscountPercent = uint8(pct)
				line.DiscountedNights = k
				line.TotalCents = full + reduced
			}
		}
		q.Lines = append(q.Lines, line)
		q.TotalBeforeCents += line.BaseCents
		q.TotalAfterCents += line.TotalCents
	}
	return q, nil
}

// coveredNights counts the nights of stay whose date lies inside the
// discount's inclusive window.
func coveredNights(d model.Discount, stay Stay) int {
	d.StartDate, d.EndDate = dateOf(d.StartDate), dateOf(d.EndDate)
	night := dateOf(stay.CheckIn)
	n := 0
	for i := 0; i < stay.Nights(); i++ {
		if d.Covers(night) {
			n++
		}
		night = night.Add(24 * time.Hour)
	}
	return n
}

// percentOf returns cents*pct/100 rounded half up.  Inputs are non-negative.
func percentOf(cents, pct int64) int64 {
	return (cents*pct + 50) / 100
}
