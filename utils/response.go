package utils

import "github.com/gin-gonic/gin"

// Success writes the `{success: true, ...payload}` envelope consumed by the
// presentation layer.
func Success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes the error envelope `{success: false, statusCode, message}` and
// aborts the request.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success":    false,
		"statusCode": status,
		"message":    message,
	})
}
