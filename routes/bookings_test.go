package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"travel-booking-server/config"
	"travel-booking-server/database"
	"travel-booking-server/jobs"
	"travel-booking-server/models"
	"travel-booking-server/services"
	"travel-booking-server/utils"
)

var dbSeq atomic.Int64

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Load()

	dsn := fmt.Sprintf("file:bookings_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	mailService := services.NewMailService()
	Setup(mailService, services.NewPDFService(), jobs.NewNewsletterJob(mailService))

	router := gin.New()
	Register(router.Group("/api/v1"))
	return router
}

func createTestUser(t *testing.T, username string, role models.UserRole) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func createTestListing(t *testing.T) models.Listing {
	t.Helper()
	listing := models.Listing{
		Title:         "Highlands Trek",
		Destination:   "Scotland",
		Duration:      5,
		RegularPrice:  100,
		DiscountPrice: 80,
	}
	require.NoError(t, database.DB.Create(&listing).Error)
	return listing
}

func createTestBooking(t *testing.T, user models.User, listing models.Listing, createdAgo time.Duration, status models.BookingStatus) models.Booking {
	t.Helper()
	booking := models.Booking{
		ListingID:   listing.ID,
		UserID:      user.ID,
		BookingDate: time.Now(),
		Status:      status,
		CreatedAt:   time.Now().Add(-createdAgo),
		Travellers: []models.Traveller{
			{Name: "Ada", Age: 30},
			{Name: "Grace", Age: 28},
			{Name: "Finn", Age: 8},
		},
	}
	require.NoError(t, database.DB.Create(&booking).Error)
	return booking
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBooking(t *testing.T) {
	router := setupRouter(t)
	_, token := createTestUser(t, "ada", models.RoleUser)
	listing := createTestListing(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", token, gin.H{
		"package_id": listing.ID,
		"travellers": []gin.H{
			{"name": "Ada", "age": 30},
			{"name": "Finn", "age": 4},
		},
		"selected_preferences": []string{"vegetarian"},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])

	booking := body["booking"].(map[string]interface{})
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, "Highlands Trek", booking["listing"].(map[string]interface{})["title"])
	assert.Equal(t, "ada@example.com", booking["user"].(map[string]interface{})["email"])
	assert.Len(t, booking["travellers"], 2)
}

func TestCreateBookingRejectsEmptyTravellers(t *testing.T) {
	router := setupRouter(t)
	_, token := createTestUser(t, "ada", models.RoleUser)
	listing := createTestListing(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/bookings", token, gin.H{
		"package_id": listing.ID,
		"travellers": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelRefundTiers(t *testing.T) {
	tests := []struct {
		name        string
		createdAgo  time.Duration
		wantPct     float64
		wantRefund  float64
		wantPenalty float64
	}{
		{"within 24 hours", 10 * time.Hour, 0, 240, 0},
		{"between 24 and 48 hours", 30 * time.Hour, 20, 192, 48},
		{"past 48 hours", 50 * time.Hour, 100, 0, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t)
			user, token := createTestUser(t, "ada", models.RoleUser)
			listing := createTestListing(t)
			booking := createTestBooking(t, user, listing, tt.createdAgo, models.BookingStatusPending)

			w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/cancel/%d", booking.ID), token, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			body := parseBody(t, w)
			assert.Equal(t, tt.wantPct, body["penalty_percentage"])
			assert.Equal(t, tt.wantRefund, body["refund"])
			assert.Equal(t, tt.wantPenalty, body["penalty"])

			var stored models.Booking
			require.NoError(t, database.DB.First(&stored, booking.ID).Error)
			assert.Equal(t, models.BookingStatusCancelled, stored.Status)
			require.NotNil(t, stored.RefundAmount)
			assert.Equal(t, tt.wantRefund, *stored.RefundAmount)
			require.NotNil(t, stored.PenaltyPercentage)
			assert.Equal(t, int(tt.wantPct), *stored.PenaltyPercentage)
			assert.NotNil(t, stored.CancelledAt)
		})
	}
}

func TestCancelForbiddenForOtherUser(t *testing.T) {
	router := setupRouter(t)
	owner, _ := createTestUser(t, "ada", models.RoleUser)
	_, otherToken := createTestUser(t, "mallory", models.RoleUser)
	listing := createTestListing(t)
	booking := createTestBooking(t, owner, listing, 10*time.Hour, models.BookingStatusPending)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/cancel/%d", booking.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
	assert.Nil(t, stored.RefundAmount)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t, "ada", models.RoleUser)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, 10*time.Hour, models.BookingStatusPending)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/cancel/%d", booking.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var first models.Booking
	require.NoError(t, database.DB.First(&first, booking.ID).Error)

	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/cancel/%d", booking.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Refund fields are written exactly once
	var second models.Booking
	require.NoError(t, database.DB.First(&second, booking.ID).Error)
	assert.Equal(t, *first.RefundAmount, *second.RefundAmount)
	assert.Equal(t, *first.PenaltyPercentage, *second.PenaltyPercentage)
}

func TestCancelCompletedBooking(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t, "ada", models.RoleUser)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, 10*time.Hour, models.BookingStatusCompleted)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/cancel/%d", booking.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelNotFound(t *testing.T) {
	router := setupRouter(t)
	_, token := createTestUser(t, "ada", models.RoleUser)

	w := doRequest(t, router, http.MethodPut, "/api/v1/bookings/cancel/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveBooking(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusPending)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/approve/%d", booking.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingStatusApproved, stored.Status)
	assert.NotNil(t, stored.ApprovedAt)

	// Approving twice is an invalid transition
	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/approve/%d", booking.ID), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveRequiresAdmin(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t, "ada", models.RoleUser)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusPending)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/approve/%d", booking.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssignGuideNotFoundBooking(t *testing.T) {
	router := setupRouter(t)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	guide, _ := createTestUser(t, "guide", models.RoleGuide)

	w := doRequest(t, router, http.MethodPut, "/api/v1/bookings/assign-guide/9999", adminToken, gin.H{"guide_id": guide.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No write happened
	var count int64
	require.NoError(t, database.DB.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAssignGuideRejectsNonGuide(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/assign-guide/%d", booking.ID), adminToken, gin.H{"guide_id": user.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignGuideRejectsBusyGuide(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	guide, _ := createTestUser(t, "guide", models.RoleGuide)
	listing := createTestListing(t)

	// The guide already holds an active booking
	active := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)
	require.NoError(t, database.DB.Model(&active).Update("guide_id", guide.ID).Error)

	next := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)
	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/assign-guide/%d", next.ID), adminToken, gin.H{"guide_id": guide.ID})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignGuideSucceeds(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	guide, _ := createTestUser(t, "guide", models.RoleGuide)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/assign-guide/%d", booking.ID), adminToken, gin.H{"guide_id": guide.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, booking.ID).Error)
	require.NotNil(t, stored.GuideID)
	assert.Equal(t, guide.ID, *stored.GuideID)
}

func TestGuideStatusLabel(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	guide, guideToken := createTestUser(t, "guide", models.RoleGuide)
	listing := createTestListing(t)

	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)
	require.NoError(t, database.DB.Model(&booking).Update("guide_id", guide.ID).Error)

	w := doRequest(t, router, http.MethodGet, "/api/v1/bookings/guide", guideToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Assigned", parseBody(t, w)["status"])

	// Completing the guide's only booking frees them
	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/complete/%d", booking.ID), guideToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/api/v1/bookings/guide", guideToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Free", parseBody(t, w)["status"])
}

func TestCompleteIsIdempotent(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	guide, guideToken := createTestUser(t, "guide", models.RoleGuide)
	listing := createTestListing(t)

	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)
	require.NoError(t, database.DB.Model(&booking).Update("guide_id", guide.ID).Error)

	w := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/complete/%d", booking.ID), guideToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/bookings/complete/%d", booking.ID), guideToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, stored.Status)
}

func TestPayRecordsTransaction(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t, "ada", models.RoleUser)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)

	w := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/bookings/%d/pay", booking.ID), token, gin.H{
		"transaction_id": "txn-123",
		"reference":      "ref-456",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Booking
	require.NoError(t, database.DB.First(&stored, booking.ID).Error)
	assert.True(t, stored.Paid)
	assert.Equal(t, "txn-123", stored.TransactionID)
	assert.Equal(t, "ref-456", stored.Reference)
}

func TestPaymentReportUsesChildFare(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	listing := createTestListing(t)

	booking := models.Booking{
		ListingID:   listing.ID,
		UserID:      user.ID,
		BookingDate: time.Now(),
		Status:      models.BookingStatusApproved,
		Paid:        true,
		Travellers: []models.Traveller{
			{Name: "Ada", Age: 30},
			{Name: "Finn", Age: 4},
		},
	}
	require.NoError(t, database.DB.Create(&booking).Error)

	w := doRequest(t, router, http.MethodGet, "/api/v1/PaymentReport", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := parseBody(t, w)
	// 80 full fare + 40 child fare
	assert.Equal(t, 120.0, body["total_collected"])
}

func TestDeleteBooking(t *testing.T) {
	router := setupRouter(t)
	user, _ := createTestUser(t, "ada", models.RoleUser)
	_, adminToken := createTestUser(t, "admin", models.RoleAdmin)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusPending)

	w := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	require.NoError(t, database.DB.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/bookings/9999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefundInvoiceDownload(t *testing.T) {
	router := setupRouter(t)
	user, token := createTestUser(t, "ada", models.RoleUser)
	_, otherToken := createTestUser(t, "mallory", models.RoleUser)
	listing := createTestListing(t)
	booking := createTestBooking(t, user, listing, time.Hour, models.BookingStatusApproved)

	w := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/refund/invoice/%d", booking.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	// Not the owner, not an admin
	w = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/refund/invoice/%d", booking.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
