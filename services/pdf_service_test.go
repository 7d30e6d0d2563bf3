package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-booking-server/models"
)

func testBooking() *models.Booking {
	return &models.Booking{
		ID:          7,
		BookingDate: time.Now(),
		Status:      models.BookingStatusApproved,
		Listing: models.Listing{
			ID:            1,
			Title:         "Highlands Trek",
			Destination:   "Scotland",
			RegularPrice:  100,
			DiscountPrice: 80,
			Duration:      5,
		},
		User: models.User{ID: 2, Username: "ada", Email: "ada@example.com"},
		Travellers: []models.Traveller{
			{Name: "Ada", Age: 30, Country: "UK"},
			{Name: "Finn", Age: 4, Country: "UK"},
		},
	}
}

func TestBookingInvoiceProducesPDF(t *testing.T) {
	data, err := NewPDFService().BookingInvoice(testBooking())
	require.NoError(t, err)

	assert.Greater(t, len(data), 500)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestBookingInvoiceForCancelledBooking(t *testing.T) {
	booking := testBooking()
	booking.Status = models.BookingStatusCancelled
	pct := 20
	refund := 128.0
	booking.PenaltyPercentage = &pct
	booking.RefundAmount = &refund

	data, err := NewPDFService().BookingInvoice(booking)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
