package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPenaltyPercentageFor(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"just booked", 0, PenaltyNone},
		{"10 hours", 10 * time.Hour, PenaltyNone},
		{"exactly 24 hours", 24 * time.Hour, PenaltyNone},
		{"25 hours", 25 * time.Hour, PenaltyPartial},
		{"30 hours", 30 * time.Hour, PenaltyPartial},
		{"exactly 48 hours", 48 * time.Hour, PenaltyPartial},
		{"just past 48 hours", 48*time.Hour + time.Minute, PenaltyFull},
		{"50 hours", 50 * time.Hour, PenaltyFull},
		{"a week", 7 * 24 * time.Hour, PenaltyFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PenaltyPercentageFor(tt.elapsed))
		})
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    float64
	}{
		{"discount below regular", Listing{RegularPrice: 100, DiscountPrice: 80}, 80},
		{"no discount set", Listing{RegularPrice: 100, DiscountPrice: 0}, 100},
		{"discount equals regular", Listing{RegularPrice: 100, DiscountPrice: 100}, 100},
		{"discount above regular", Listing{RegularPrice: 100, DiscountPrice: 120}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.EffectiveUnitPrice())
		})
	}
}

func newTestBooking(createdAgo time.Duration, travellerAges ...int) Booking {
	travellers := make([]Traveller, 0, len(travellerAges))
	for _, age := range travellerAges {
		travellers = append(travellers, Traveller{Name: "t", Age: age})
	}
	return Booking{
		Listing:    Listing{ID: 1, RegularPrice: 100, DiscountPrice: 80},
		Travellers: travellers,
		CreatedAt:  time.Now().Add(-createdAgo),
	}
}

// The three worked examples from the cancellation rules: a 100/80 package
// with three travellers, cancelled 30, 50 and 10 hours after booking.
func TestRefundBreakdownExamples(t *testing.T) {
	now := time.Now()

	b := newTestBooking(30*time.Hour, 30, 28, 8)
	got := b.RefundBreakdown(now)
	assert.Equal(t, 240.0, got.TotalAmount)
	assert.Equal(t, 20, got.PenaltyPercentage)
	assert.Equal(t, 48.0, got.PenaltyAmount)
	assert.Equal(t, 192.0, got.RefundAmount)

	b = newTestBooking(50*time.Hour, 30, 28, 8)
	got = b.RefundBreakdown(now)
	assert.Equal(t, 100, got.PenaltyPercentage)
	assert.Equal(t, 0.0, got.RefundAmount)

	b = newTestBooking(10*time.Hour, 30, 28, 8)
	got = b.RefundBreakdown(now)
	assert.Equal(t, 0, got.PenaltyPercentage)
	assert.Equal(t, 240.0, got.RefundAmount)
}

func TestRefundBreakdownMissingListing(t *testing.T) {
	b := newTestBooking(10*time.Hour, 30, 28)
	b.Listing = Listing{} // reference failed to load

	got := b.RefundBreakdown(time.Now())
	assert.Equal(t, 0.0, got.TotalAmount)
	assert.Equal(t, 0.0, got.RefundAmount)
}

func TestTravellerFare(t *testing.T) {
	assert.Equal(t, 80.0, TravellerFare(80, 30))
	assert.Equal(t, 80.0, TravellerFare(80, 6))
	assert.Equal(t, 40.0, TravellerFare(80, 5))
	assert.Equal(t, 40.0, TravellerFare(80, 0))
}

// Pins the deliberate asymmetry: refunds bill every traveller at full fare,
// quotes halve the fare for children aged 5 and under.
func TestChildFareAsymmetry(t *testing.T) {
	b := newTestBooking(10*time.Hour, 30, 4)

	refund := b.RefundBreakdown(time.Now())
	assert.Equal(t, 160.0, refund.TotalAmount, "cancellation bills full fare per traveller")
	assert.Equal(t, 160.0, refund.RefundAmount)

	assert.Equal(t, 120.0, b.QuoteTotal(), "quote halves the child fare")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&Booking{Status: BookingStatusPending}).IsTerminal())
	assert.False(t, (&Booking{Status: BookingStatusApproved}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).IsTerminal())
	assert.True(t, (&Booking{Status: BookingStatusCancelled}).IsTerminal())
}
