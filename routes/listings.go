package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// ListingRequest is the create/update payload for a tour package.
type ListingRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	Destination    string   `json:"destination" binding:"required"`
	PackageType    string   `json:"package_type"`
	Duration       int      `json:"duration" binding:"required,gte=1"`
	RegularPrice   float64  `json:"regular_price" binding:"required,gt=0"`
	DiscountPrice  float64  `json:"discount_price" binding:"gte=0"`
	Offer          bool     `json:"offer"`
	Accommodations bool     `json:"accommodations"`
	Transport      bool     `json:"transport"`
	Itinerary      []string `json:"itinerary"`
	ImageURLs      []string `json:"image_urls"`
}

// QuoteRequest carries traveller ages for a price quote.
type QuoteRequest struct {
	Ages []int `json:"ages" binding:"required,min=1,dive,gte=0"`
}

// RegisterListingRoutes registers catalogue routes
func RegisterListingRoutes(api *gin.RouterGroup) {
	listings := api.Group("/listings")
	{
		listings.GET("", listListings)
		listings.GET("/:id", getListing)
		listings.POST("/:id/quote", quoteListing)
	}

	admin := api.Group("/listings")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.POST("", createListing)
		admin.PUT("/:id", updateListing)
		admin.DELETE("/:id", deleteListing)
	}
}

func listListings(c *gin.Context) {
	query := database.DB.Order("created_at DESC")

	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
	}
	if c.Query("offer") == "true" {
		query = query.Where("offer = ?", true)
	}

	var listings []models.Listing
	if err := query.Find(&listings).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch listings")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"listings": listings})
}

func getListing(c *gin.Context) {
	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Listing not found")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"listing": listing})
}

// quoteListing prices a party against a listing using the child half-fare
// rule (travellers aged 5 and under pay half). This rule is for quotes and
// reports only; cancellation refunds bill full fare per traveller.
func quoteListing(c *gin.Context) {
	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Listing not found")
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	unitPrice := listing.EffectiveUnitPrice()
	var total float64
	for _, age := range req.Ages {
		total += models.TravellerFare(unitPrice, age)
	}

	utils.Success(c, http.StatusOK, gin.H{
		"unit_price": unitPrice,
		"travellers": len(req.Ages),
		"total":      total,
	})
}

func createListing(c *gin.Context) {
	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	listing := models.Listing{
		Title:          req.Title,
		Description:    req.Description,
		Destination:    req.Destination,
		PackageType:    req.PackageType,
		Duration:       req.Duration,
		RegularPrice:   req.RegularPrice,
		DiscountPrice:  req.DiscountPrice,
		Offer:          req.Offer,
		Accommodations: req.Accommodations,
		Transport:      req.Transport,
		Itinerary:      req.Itinerary,
		ImageURLs:      req.ImageURLs,
	}

	if err := database.DB.Create(&listing).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to create listing")
		return
	}

	utils.Success(c, http.StatusCreated, gin.H{"listing": listing})
}

func updateListing(c *gin.Context) {
	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Listing not found")
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	listing.Title = req.Title
	listing.Description = req.Description
	listing.Destination = req.Destination
	listing.PackageType = req.PackageType
	listing.Duration = req.Duration
	listing.RegularPrice = req.RegularPrice
	listing.DiscountPrice = req.DiscountPrice
	listing.Offer = req.Offer
	listing.Accommodations = req.Accommodations
	listing.Transport = req.Transport
	listing.Itinerary = req.Itinerary
	listing.ImageURLs = req.ImageURLs

	if err := database.DB.Save(&listing).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to update listing")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"listing": listing})
}

func deleteListing(c *gin.Context) {
	var listing models.Listing
	if err := database.DB.First(&listing, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Listing not found")
		return
	}

	if err := database.DB.Delete(&listing).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete listing")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Listing deleted"})
}
