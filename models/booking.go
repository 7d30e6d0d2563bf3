package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Cancellation penalty tiers, percent of the total billed amount retained.
const (
	PenaltyFull    = 100 // more than 48h after booking creation
	PenaltyPartial = 20  // between 24h and 48h
	PenaltyNone    = 0   // within 24h
)

// Booking is one user's reservation against a Listing, with 0..1 assigned
// guide. The lifecycle is pending -> approved -> {completed | cancelled};
// payment is an orthogonal flag recorded by the demo gateway confirmation.
type Booking struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	ListingID           uint          `json:"listing_id" gorm:"not null"`
	UserID              uint          `json:"user_id" gorm:"not null"`
	GuideID             *uint         `json:"guide_id"` // Can be null until assigned
	BookingDate         time.Time     `json:"booking_date" gorm:"not null"`
	SelectedPreferences []string      `json:"selected_preferences" gorm:"serializer:json"`
	Status              BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','approved','completed','cancelled')"`
	Paid                bool          `json:"paid" gorm:"default:false"`
	TransactionID       string        `json:"transaction_id" gorm:"size:100"`
	Reference           string        `json:"reference" gorm:"size:100"`
	ApprovedAt          *time.Time    `json:"approved_at"`
	CompletedAt         *time.Time    `json:"completed_at"`
	CancelledAt         *time.Time    `json:"cancelled_at"`
	PenaltyPercentage   *int          `json:"penalty_percentage"`
	RefundAmount        *float64      `json:"refund_amount" gorm:"type:decimal(10,2)"`
	CreatedAt           time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Listing    Listing     `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	User       User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Guide      *User       `json:"guide,omitempty" gorm:"foreignKey:GuideID"`
	Travellers []Traveller `json:"travellers" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// Traveller is embedded in a booking; travellers are not independently
// addressable through the API.
type Traveller struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	BookingID   uint   `json:"booking_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Age         int    `json:"age" gorm:"not null;check:age >= 0"`
	Gender      string `json:"gender" gorm:"size:20"`
	Country     string `json:"country" gorm:"size:100"`
	Contact     string `json:"contact" gorm:"size:50"`
	Email       string `json:"email" gorm:"size:255"`
	Preferences string `json:"preferences" gorm:"size:500"`
}

// TableName specifies the table name for the Traveller model
func (Traveller) TableName() string {
	return "travellers"
}

// IsTerminal reports whether the booking has reached a final state.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// PenaltyPercentageFor returns the cancellation penalty tier for the elapsed
// time since the booking was created. Tiers are exclusive, evaluated high to
// low: >48h forfeits everything, 24-48h forfeits 20%, up to 24h refunds in
// full.
func PenaltyPercentageFor(sinceCreation time.Duration) int {
	hours := sinceCreation.Hours()
	switch {
	case hours > 48:
		return PenaltyFull
	case hours > 24:
		return PenaltyPartial
	default:
		return PenaltyNone
	}
}

// RefundBreakdown is the outcome of a cancellation computation.
type RefundBreakdown struct {
	TotalAmount       float64 `json:"total_amount"`
	PenaltyPercentage int     `json:"penalty_percentage"`
	PenaltyAmount     float64 `json:"penalty"`
	RefundAmount      float64 `json:"refund"`
}

// RefundBreakdown computes the cancellation refund as of now. Every traveller
// is billed the full unit price here; the child half-fare rule used for
// quoting does not apply to refunds. A booking whose listing reference failed
// to load prices at zero.
func (b *Booking) RefundBreakdown(now time.Time) RefundBreakdown {
	var unitPrice float64
	if b.Listing.ID != 0 {
		unitPrice = b.Listing.EffectiveUnitPrice()
	}

	totalAmount := unitPrice * float64(len(b.Travellers))
	penaltyPercentage := PenaltyPercentageFor(now.Sub(b.CreatedAt))
	penaltyAmount := float64(penaltyPercentage) / 100 * totalAmount

	return RefundBreakdown{
		TotalAmount:       totalAmount,
		PenaltyPercentage: penaltyPercentage,
		PenaltyAmount:     penaltyAmount,
		RefundAmount:      totalAmount - penaltyAmount,
	}
}

// QuoteTotal computes the quoted price for the booking's travellers using the
// child half-fare rule. Used for quoting and payment reporting.
func (b *Booking) QuoteTotal() float64 {
	var unitPrice float64
	if b.Listing.ID != 0 {
		unitPrice = b.Listing.EffectiveUnitPrice()
	}

	var total float64
	for _, t := range b.Travellers {
		total += TravellerFare(unitPrice, t.Age)
	}
	return total
}
