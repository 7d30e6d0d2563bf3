package main

import (
	"travel-booking-server/config"
	"travel-booking-server/database"
	"travel-booking-server/logger"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// EnsureDefaultAdmin creates the default admin account if no admin exists.
// Safe to run on every startup.
func EnsureDefaultAdmin() error {
	var count int64
	if err := database.DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	admin := config.AppConfig.Admin

	hashed, err := utils.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return err
	}

	logger.Info("default admin account created", "username", admin.Username)
	return nil
}
