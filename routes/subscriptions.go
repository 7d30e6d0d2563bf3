package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/jobs"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// SubscribeRequest adds an email to the newsletter list.
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// NewsletterRequest is the admin payload to send a bulk newsletter.
type NewsletterRequest struct {
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// RegisterSubscriptionRoutes registers newsletter routes
func RegisterSubscriptionRoutes(api *gin.RouterGroup) {
	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("", subscribe)
		subscriptions.DELETE("/:email", unsubscribe)
	}

	api.POST("/newsletter/send", middleware.AuthMiddleware(), middleware.RequireAdmin(), sendNewsletter)
}

// subscribe adds or re-activates a newsletter subscription.
func subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var sub models.Subscription
	if err := database.DB.Where("email = ?", req.Email).First(&sub).Error; err == nil {
		if !sub.Active {
			if err := database.DB.Model(&sub).Update("active", true).Error; err != nil {
				utils.Fail(c, http.StatusInternalServerError, "Failed to subscribe")
				return
			}
		}
		utils.Success(c, http.StatusOK, gin.H{"subscription": sub})
		return
	}

	sub = models.Subscription{Email: req.Email, Active: true}
	if err := database.DB.Create(&sub).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	utils.Success(c, http.StatusCreated, gin.H{"subscription": sub})
}

// unsubscribe deactivates a subscription; repeated calls are harmless.
func unsubscribe(c *gin.Context) {
	var sub models.Subscription
	if err := database.DB.Where("email = ?", c.Param("email")).First(&sub).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Subscription not found")
		return
	}

	if err := database.DB.Model(&sub).Update("active", false).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Unsubscribed"})
}

// sendNewsletter queues a bulk mailing; delivery happens in the background
// job so the admin request returns immediately.
func sendNewsletter(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if !newsletter.Enqueue(jobs.NewsletterTask{Subject: req.Subject, Body: req.Body}) {
		utils.Fail(c, http.StatusServiceUnavailable, "Newsletter queue is full, try again later")
		return
	}

	utils.Success(c, http.StatusAccepted, gin.H{"message": "Newsletter queued for delivery"})
}
