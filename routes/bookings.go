package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travel-booking-server/database"
	"travel-booking-server/logger"
	"travel-booking-server/metrics"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// TravellerInput is one traveller in a booking request.
type TravellerInput struct {
	Name        string `json:"name" binding:"required"`
	Age         int    `json:"age" binding:"gte=0"`
	Gender      string `json:"gender"`
	Country     string `json:"country"`
	Contact     string `json:"contact"`
	Email       string `json:"email"`
	Preferences string `json:"preferences"`
}

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	PackageID           uint             `json:"package_id" binding:"required"`
	Travellers          []TravellerInput `json:"travellers" binding:"required,min=1,dive"`
	PreferredDate       *time.Time       `json:"preferred_date"`
	SelectedPreferences []string         `json:"selected_preferences"`
}

// AssignGuideRequest is the payload for assigning a guide to a booking.
type AssignGuideRequest struct {
	GuideID uint `json:"guide_id" binding:"required"`
}

// PayBookingRequest is the payload of the demo payment confirmation step.
type PayBookingRequest struct {
	TransactionID string `json:"transaction_id"`
	Reference     string `json:"reference"`
}

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(api *gin.RouterGroup) {
	bookings := api.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", createBooking)
		bookings.GET("/my", listMyBookings)
		bookings.GET("", middleware.RequireAdmin(), listAllBookings)
		bookings.PUT("/approve/:id", middleware.RequireAdmin(), approveBooking)
		bookings.DELETE("/:id", middleware.RequireAdmin(), deleteBooking)
		bookings.PUT("/assign-guide/:bookingId", middleware.RequireAdmin(), assignGuide)
		bookings.GET("/guide", middleware.RequireGuide(), listGuideBookings)
		bookings.PUT("/complete/:bookingId", middleware.RequireGuide(), completeBooking)
		bookings.GET("/:bookingId", getBooking)
		bookings.POST("/:bookingId/pay", payBooking)
		bookings.PUT("/cancel/:id", cancelBooking)
	}

	api.GET("/PaymentReport", middleware.AuthMiddleware(), middleware.RequireAdmin(), paymentReport)
	api.GET("/refund/invoice/:bookingId", middleware.AuthMiddleware(), refundInvoice)
}

// createBooking persists a new booking and sends a best-effort confirmation
// email. Confirmation delivery never fails the create.
func createBooking(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var listing models.Listing
	if err := database.DB.First(&listing, req.PackageID).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Package not found")
		return
	}

	bookingDate := time.Now()
	if req.PreferredDate != nil {
		bookingDate = *req.PreferredDate
	}

	travellers := make([]models.Traveller, 0, len(req.Travellers))
	for _, t := range req.Travellers {
		travellers = append(travellers, models.Traveller{
			Name:        t.Name,
			Age:         t.Age,
			Gender:      t.Gender,
			Country:     t.Country,
			Contact:     t.Contact,
			Email:       t.Email,
			Preferences: t.Preferences,
		})
	}

	booking := models.Booking{
		ListingID:           listing.ID,
		UserID:              user.ID,
		BookingDate:         bookingDate,
		SelectedPreferences: req.SelectedPreferences,
		Status:              models.BookingStatusPending,
		Travellers:          travellers,
	}

	if err := database.DB.Create(&booking).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	if err := database.DB.
		Preload("Listing").
		Preload("User").
		Preload("Travellers").
		First(&booking, booking.ID).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to load booking")
		return
	}

	metrics.BookingsCreated.Inc()
	mail.SendBookingConfirmation(&booking)

	utils.Success(c, http.StatusCreated, gin.H{"booking": booking})
}

// listMyBookings returns the caller's bookings, newest travel date first.
func listMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := database.DB.
		Where("user_id = ?", userID).
		Preload("Listing").
		Preload("Guide").
		Preload("Travellers").
		Order("booking_date DESC").
		Find(&bookings).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// listAllBookings returns every booking for the admin dashboard.
func listAllBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.
		Preload("Listing").
		Preload("User").
		Preload("Guide").
		Preload("Travellers").
		Order("booking_date DESC").
		Find(&bookings).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// getBooking returns one booking, expanded.
func getBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.
		Preload("Listing").
		Preload("User").
		Preload("Guide").
		Preload("Travellers").
		First(&booking, "id = ?", c.Param("bookingId")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// approveBooking moves a pending booking to approved.
func approveBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.Status != models.BookingStatusPending {
		utils.Fail(c, http.StatusConflict, fmt.Sprintf("Only pending bookings can be approved (current status: %s)", booking.Status))
		return
	}

	now := time.Now()
	booking.Status = models.BookingStatusApproved
	booking.ApprovedAt = &now
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"status":      booking.Status,
		"approved_at": booking.ApprovedAt,
	}).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to approve booking")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// assignGuide appoints a guide to a booking. The target user must hold the
// guide role and be free: guides with any booking still in a non-terminal
// status cannot take another one.
func assignGuide(c *gin.Context) {
	var req AssignGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var booking models.Booking
	if err := database.DB.
		Preload("Listing").
		Preload("User").
		First(&booking, "id = ?", c.Param("bookingId")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.IsTerminal() {
		utils.Fail(c, http.StatusConflict, "Cannot assign a guide to a completed or cancelled booking")
		return
	}

	var guide models.User
	if err := database.DB.First(&guide, req.GuideID).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Guide not found")
		return
	}

	if !guide.IsGuide() {
		utils.Fail(c, http.StatusBadRequest, "Selected user is not a guide")
		return
	}

	free, err := guideIsFree(guide.ID, booking.ID)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to check guide availability")
		return
	}
	if !free {
		utils.Fail(c, http.StatusConflict, "Guide already has an active booking")
		return
	}

	booking.GuideID = &guide.ID
	if err := database.DB.Model(&booking).Update("guide_id", guide.ID).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to assign guide")
		return
	}

	mail.SendGuideAssignment(&booking, &guide)

	utils.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// guideIsFree reports whether the guide has no other booking in a
// non-terminal status. Completed and cancelled bookings do not occupy a
// guide.
func guideIsFree(guideID uint, excludeBookingID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Booking{}).
		Where("guide_id = ? AND id <> ? AND status NOT IN ?",
			guideID, excludeBookingID,
			[]models.BookingStatus{models.BookingStatusCompleted, models.BookingStatusCancelled}).
		Count(&count).Error
	return count == 0, err
}

// listGuideBookings returns the calling guide's bookings plus the derived
// Assigned/Free availability label.
func listGuideBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := database.DB.
		Where("guide_id = ?", userID).
		Preload("Listing").
		Preload("User").
		Preload("Guide").
		Preload("Travellers").
		Order("booking_date DESC").
		Find(&bookings).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	status := "Free"
	for _, b := range bookings {
		if !b.IsTerminal() {
			status = "Assigned"
			break
		}
	}

	utils.Success(c, http.StatusOK, gin.H{
		"status":   status,
		"bookings": bookings,
	})
}

// completeBooking marks an approved booking completed. Re-completing is a
// no-op with the same end state.
func completeBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", c.Param("bookingId")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.GuideID == nil || *booking.GuideID != userID {
		utils.Fail(c, http.StatusForbidden, "Booking is not assigned to you")
		return
	}

	switch booking.Status {
	case models.BookingStatusCompleted:
		utils.Success(c, http.StatusOK, gin.H{"booking": booking})
		return
	case models.BookingStatusCancelled:
		utils.Fail(c, http.StatusConflict, "Cancelled bookings cannot be completed")
		return
	case models.BookingStatusPending:
		utils.Fail(c, http.StatusConflict, "Booking must be approved before completion")
		return
	}

	now := time.Now()
	booking.Status = models.BookingStatusCompleted
	booking.CompletedAt = &now
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"status":       booking.Status,
		"completed_at": booking.CompletedAt,
	}).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to complete booking")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// payBooking records the demo payment confirmation. No gateway verification
// happens here.
func payBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", c.Param("bookingId")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	var req PayBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.TransactionID == "" {
		req.TransactionID = uuid.NewString()
	}
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}

	booking.Paid = true
	booking.TransactionID = req.TransactionID
	booking.Reference = req.Reference
	if err := database.DB.Model(&booking).Updates(map[string]interface{}{
		"paid":           booking.Paid,
		"transaction_id": booking.TransactionID,
		"reference":      booking.Reference,
	}).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// cancelBooking cancels the caller's own booking and computes the time-tiered
// refund. Penalty and refund are written exactly once; the conditional update
// keyed on a non-terminal status keeps overlapping cancellations from
// rewriting them.
func cancelBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var booking models.Booking
	if err := database.DB.
		Preload("Listing").
		Preload("Travellers").
		First(&booking, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.UserID != userID {
		utils.Fail(c, http.StatusForbidden, "You can only cancel your own bookings")
		return
	}

	if booking.Status == models.BookingStatusCancelled {
		utils.Fail(c, http.StatusConflict, "Booking is already cancelled")
		return
	}

	if booking.Status == models.BookingStatusCompleted {
		utils.Fail(c, http.StatusConflict, "Completed bookings cannot be cancelled")
		return
	}

	now := time.Now()
	breakdown := booking.RefundBreakdown(now)

	result := database.DB.Model(&models.Booking{}).
		Where("id = ? AND status NOT IN ?", booking.ID,
			[]models.BookingStatus{models.BookingStatusCompleted, models.BookingStatusCancelled}).
		Updates(map[string]interface{}{
			"status":             models.BookingStatusCancelled,
			"cancelled_at":       now,
			"penalty_percentage": breakdown.PenaltyPercentage,
			"refund_amount":      breakdown.RefundAmount,
		})
	if result.Error != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, http.StatusConflict, "Booking is already cancelled")
		return
	}

	metrics.BookingsCancelled.Inc()
	metrics.RefundAmounts.Observe(breakdown.RefundAmount)
	logger.Info("booking cancelled",
		"booking_id", booking.ID,
		"penalty_percentage", breakdown.PenaltyPercentage,
		"refund", breakdown.RefundAmount)

	utils.Success(c, http.StatusOK, gin.H{
		"refund":             breakdown.RefundAmount,
		"penalty":            breakdown.PenaltyAmount,
		"penalty_percentage": breakdown.PenaltyPercentage,
	})
}

// deleteBooking hard-deletes a booking after a best-effort cancellation
// notice to its owner.
func deleteBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.
		Preload("Listing").
		Preload("User").
		Preload("Travellers").
		First(&booking, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	mail.SendCancellationNotice(&booking)

	if err := database.DB.Select("Travellers").Delete(&booking).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete booking")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Booking deleted"})
}

// paymentReport lists paid bookings with quoted amounts. Report amounts use
// the child half-fare rule, unlike cancellation refunds.
func paymentReport(c *gin.Context) {
	var bookings []models.Booking
	if err := database.DB.
		Where("paid = ?", true).
		Preload("Listing").
		Preload("User").
		Preload("Travellers").
		Order("booking_date DESC").
		Find(&bookings).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch payment report")
		return
	}

	type reportRow struct {
		Booking models.Booking `json:"booking"`
		Amount  float64        `json:"amount"`
	}

	rows := make([]reportRow, 0, len(bookings))
	var total float64
	for i := range bookings {
		amount := bookings[i].QuoteTotal()
		total += amount
		rows = append(rows, reportRow{Booking: bookings[i], Amount: amount})
	}

	utils.Success(c, http.StatusOK, gin.H{
		"report":          rows,
		"total_collected": total,
	})
}

// refundInvoice streams the booking invoice / refund receipt PDF. Owners and
// admins only.
func refundInvoice(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var booking models.Booking
	if err := database.DB.
		Preload("Listing").
		Preload("User").
		Preload("Travellers").
		First(&booking, "id = ?", c.Param("bookingId")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.UserID != user.ID && !user.IsAdmin() {
		utils.Fail(c, http.StatusForbidden, "You can only download invoices for your own bookings")
		return
	}

	data, err := pdfService.BookingInvoice(&booking)
	if err != nil {
		logger.Error("invoice generation failed", "booking_id", booking.ID, "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", booking.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}
