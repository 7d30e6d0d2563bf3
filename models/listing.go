package models

import (
	"time"
)

// Listing is a sellable tour package.
type Listing struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Title          string    `json:"title" gorm:"size:255;not null"`
	Description    string    `json:"description" gorm:"size:2000"`
	Destination    string    `json:"destination" gorm:"size:255;not null"`
	PackageType    string    `json:"package_type" gorm:"size:100"`
	Duration       int       `json:"duration" gorm:"not null;default:1"` // days
	RegularPrice   float64   `json:"regular_price" gorm:"type:decimal(10,2);not null"`
	DiscountPrice  float64   `json:"discount_price" gorm:"type:decimal(10,2);default:0"`
	Offer          bool      `json:"offer" gorm:"default:false"`
	Accommodations bool      `json:"accommodations" gorm:"default:false"`
	Transport      bool      `json:"transport" gorm:"default:false"`
	Itinerary      []string  `json:"itinerary" gorm:"serializer:json"`
	ImageURLs      []string  `json:"image_urls" gorm:"serializer:json"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}

// EffectiveUnitPrice returns the per-traveller price: the discount price when
// one is set and actually lower than the regular price, otherwise the regular
// price.
func (l *Listing) EffectiveUnitPrice() float64 {
	if l.DiscountPrice > 0 && l.DiscountPrice < l.RegularPrice {
		return l.DiscountPrice
	}
	return l.RegularPrice
}

// TravellerFare returns a single traveller's contribution to a quoted total.
// Children aged 5 and under travel at half fare. This rule applies to quotes
// and payment reporting only; cancellation refunds bill every traveller at
// the full unit price (see Booking.RefundBreakdown).
func TravellerFare(unitPrice float64, age int) float64 {
	if age > 5 {
		return unitPrice
	}
	return unitPrice / 2
}
