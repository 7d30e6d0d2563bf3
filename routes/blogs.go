package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-booking-server/database"
	"travel-booking-server/middleware"
	"travel-booking-server/models"
	"travel-booking-server/utils"
)

// BlogPostRequest is the create/update payload for a blog post.
type BlogPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

// RegisterBlogRoutes registers blog content routes
func RegisterBlogRoutes(api *gin.RouterGroup) {
	blogs := api.Group("/blogs")
	{
		blogs.GET("", listBlogPosts)
		blogs.GET("/:id", getBlogPost)
	}

	admin := api.Group("/blogs")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.POST("", createBlogPost)
		admin.PUT("/:id", updateBlogPost)
		admin.DELETE("/:id", deleteBlogPost)
	}
}

func listBlogPosts(c *gin.Context) {
	var posts []models.BlogPost
	if err := database.DB.Preload("Author").Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to fetch blog posts")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"posts": posts})
}

func getBlogPost(c *gin.Context) {
	var post models.BlogPost
	if err := database.DB.Preload("Author").First(&post, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Blog post not found")
		return
	}
	utils.Success(c, http.StatusOK, gin.H{"post": post})
}

func createBlogPost(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	post := models.BlogPost{
		AuthorID: user.ID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to create blog post")
		return
	}

	utils.Success(c, http.StatusCreated, gin.H{"post": post})
}

func updateBlogPost(c *gin.Context) {
	var post models.BlogPost
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Blog post not found")
		return
	}

	var req BlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	post.Title = req.Title
	post.Content = req.Content
	post.ImageURL = req.ImageURL

	if err := database.DB.Save(&post).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to update blog post")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"post": post})
}

func deleteBlogPost(c *gin.Context) {
	var post models.BlogPost
	if err := database.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		utils.Fail(c, http.StatusNotFound, "Blog post not found")
		return
	}

	if err := database.DB.Delete(&post).Error; err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete blog post")
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Blog post deleted"})
}
