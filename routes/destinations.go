package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// DestinationRequest is the create/update payload for a destination.
type DestinationRequest struct {
	Name        string `json:"name" binding:"required"`
	Country     string `json:"country"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// RegisterDestinationRoutes registers destination catalogue routes
func RegisterDestinationRoutes(api *gin.RouterGroup) {
	destinations := api.Group("/destinations")
	{
		destinations.GET("", listDestinations)
		destinations.GET("/:id", getDestination)
	}

	admin := api.Group("/destinations")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.POST("", createDestination)
		admin.PUT("/:id", updateDestination)
		admin.DELETE("/:id", deleteDestination)
	}
}

func listDestinations(c *gin.Context) {
	var destinations []models.Destination
	if err := database.DB.Order("name ASC").Find(&destinations).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch destinations")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"destinations": destinations})
}

func getDestination(c *gin.Context) {
	var destination models.Destination
	if err := database.DB.First(&destination, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Destination not found")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"destination": destination})
}

func createDestination(c *gin.Context) {
	var req DestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	destination := models.Destination{
		Name:        req.Name,
		Country:     req.Country,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := database.DB.Create(&destination).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to create destination")
		return
	}

	utils.Success(c, http.StatusCreated, gin.H{"destination": destination})
}

func updateDestination(c *gin.Context) {
	var destination models.Destination
	if err := database.DB.First(&destination, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Destination not found")
		return
	}

	var req DestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	destination.Name = req.Name
	destination.Country = req.Country
	destination.Description = req.Description
	destination.ImageURL = req.ImageURL

	if err := database.DB.Save(&destination).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to update destination")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"destination": destination})
}

func deleteDestination(c *gin.Context) {
	var destination models.Destination
	if err := database.DB.First(&destination, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Destination not found")
		return
	}

	if err := database.DB.Delete(&destination).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete destination")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Destination deleted"})
}
