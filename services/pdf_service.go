package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"travel-booking-server/models"
)

// PDFService renders booking invoices and refund receipts.
type PDFService struct{}

// NewPDFService creates a new PDF service
func NewPDFService() *PDFService {
	return &PDFService{}
}

// BookingInvoice renders an invoice for the booking. For cancelled bookings
// the document doubles as a refund receipt with the penalty breakdown.
func (s *PDFService) BookingInvoice(booking *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	title := "Booking Invoice"
	if booking.Status == models.BookingStatusCancelled {
		title = "Refund Receipt"
	}
	pdf.Cell(0, 12, title)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice no: %s", uuid.NewString()))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", time.Now().Format("02 Jan 2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Booking: #%d  Status: %s", booking.ID, booking.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, booking.Listing.Title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Destination: %s", booking.Listing.Destination))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Booked by: %s <%s>", booking.User.Username, booking.User.Email))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Travel date: %s", booking.BookingDate.Format("02 Jan 2006")))
	pdf.Ln(10)

	// Travellers table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(70, 7, "Traveller", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 7, "Country", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Fare", "1", 1, "R", false, 0, "")

	unitPrice := booking.Listing.EffectiveUnitPrice()
	pdf.SetFont("Helvetica", "", 10)
	for _, t := range booking.Travellers {
		pdf.CellFormat(70, 7, t.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", t.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 7, t.Country, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", models.TravellerFare(unitPrice, t.Age)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	if booking.Status == models.BookingStatusCancelled && booking.RefundAmount != nil && booking.PenaltyPercentage != nil {
		total := unitPrice * float64(len(booking.Travellers))
		pdf.Cell(0, 7, fmt.Sprintf("Total billed: %.2f", total))
		pdf.Ln(7)
		pdf.Cell(0, 7, fmt.Sprintf("Cancellation penalty: %d%% (%.2f)", *booking.PenaltyPercentage, total-*booking.RefundAmount))
		pdf.Ln(7)
		pdf.Cell(0, 7, fmt.Sprintf("Refund due: %.2f", *booking.RefundAmount))
	} else {
		pdf.Cell(0, 7, fmt.Sprintf("Total due: %.2f", booking.QuoteTotal()))
		if booking.Paid {
			pdf.Ln(7)
			pdf.SetFont("Helvetica", "", 10)
			pdf.Cell(0, 6, fmt.Sprintf("Paid. Transaction %s, reference %s", booking.TransactionID, booking.Reference))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
