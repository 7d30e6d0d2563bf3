package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// ComplaintRequest files a complaint against a listing or a user. The target
// type accepts "Guide" as an alias that is stored as "User".
type ComplaintRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   uint   `json:"target_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// RegisterComplaintRoutes registers complaint routes
func RegisterComplaintRoutes(api *gin.RouterGroup) {
	complaints := api.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware())
	{
		complaints.POST("", createComplaint)
		complaints.GET("/my", listMyComplaints)
		complaints.GET("", middleware.RequireAdmin(), listComplaints)
		complaints.PUT("/:id/resolve", middleware.RequireAdmin(), resolveComplaint)
	}
}

func createComplaint(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	targetType, ok := models.NormalizeTargetType(req.TargetType)
	if !ok {
		utils.Fail(c, http.StatusBadRequest, "target_type must be Listing, User or Guide")
		return
	}

	complaint := models.Complaint{
		UserID:     user.ID,
		TargetType: targetType,
		TargetID:   req.TargetID,
		Message:    req.Message,
		Status:     models.ComplaintStatusPending,
	}

	if err := database.DB.Create(&complaint).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to file complaint")
		return
	}

	utils.Success(c, http.StatusCreated, gin.H{"complaint": complaint})
}

func listMyComplaints(c *gin.Context) {
	userID := c.GetUint("user_id")

	var complaints []models.Complaint
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&complaints).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"complaints": complaints})
}

func listComplaints(c *gin.Context) {
	var complaints []models.Complaint
	if err := database.DB.Preload("User").Order("created_at DESC").Find(&complaints).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"complaints": complaints})
}

func resolveComplaint(c *gin.Context) {
	var complaint models.Complaint
	if err := database.DB.First(&complaint, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Complaint not found")
		return
	}

	if err := database.DB.Model(&complaint).Update("status", models.ComplaintStatusResolved).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to resolve complaint")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"complaint": complaint})
}
