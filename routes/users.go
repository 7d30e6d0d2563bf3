package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// UpdateRoleRequest changes a user's role. Admins promote users to guides
// through this endpoint.
type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// RegisterUserRoutes registers admin user-management routes
func RegisterUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		users.GET("", listUsers)
		users.GET("/guides", listGuides)
		users.PATCH("/:id/role", updateUserRole)
		users.DELETE("/:id", deleteUser)
	}
}

func listUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"users": users})
}

// listGuides returns all guide accounts with their Assigned/Free availability.
func listGuides(c *gin.Context) {
	var guides []models.User
	if err := database.DB.Where("role = ?", models.RoleGuide).Find(&guides).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch guides")
		return
	}

	type guideRow struct {
		Guide  models.User `json:"guide"`
		Status string      `json:"status"`
	}

	rows := make([]guideRow, 0, len(guides))
	for _, g := range guides {
		free, err := guideIsFree(g.ID, 0)
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "Failed to check guide availability")
			return
		}
		status := "Assigned"
		if free {
			status = "Free"
		}
		rows = append(rows, guideRow{Guide: g, Status: status})
	}

	utils.Success(c, http.StatusOK, gin.H{"guides": rows})
}

func updateUserRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	user.Role = req.Role
	if !user.IsValidRole() {
		utils.Fail(c, http.StatusBadRequest, "Invalid role")
		return
	}

	if err := database.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to update role")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"user": user})
}

func deleteUser(c *gin.Context) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "User deleted"})
}
