package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// SignUpRequest represents the registration request
type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Avatar   string `json:"avatar"`
}

// SignInRequest represents the sign in request
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents a profile update. A password that is
// already a bcrypt digest is stored as-is; plaintext is hashed. Passwords are
// never hashed twice.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Password string `json:"password"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	router.POST("/signup", signUp)
	router.POST("/signin", signIn)

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware())
	authed.GET("/me", currentUser)
	authed.PUT("/profile", updateProfile)
}

// signUp handles user registration
func signUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		utils.Fail(c, http.StatusConflict, "A user with this username or email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to process password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Avatar:       req.Avatar,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.Success(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// signIn handles user login
func signIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		utils.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !user.IsActive {
		utils.Fail(c, http.StatusUnauthorized, "User account is deactivated")
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// currentUser returns the authenticated user's profile.
func currentUser(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	utils.Success(c, http.StatusOK, gin.H{"user": user})
}

// updateProfile updates the caller's own profile.
func updateProfile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.Password != "" {
		password := req.Password
		if !utils.IsHashed(password) {
			hashed, err := utils.HashPassword(password)
			if err != nil {
				utils.Fail(c, http.StatusInternalServerError, "Failed to process password")
				return
			}
			password = hashed
		}
		updates["password_hash"] = password
	}

	if len(updates) == 0 {
		utils.Success(c, http.StatusOK, gin.H{"user": user})
		return
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"user": user})
}
