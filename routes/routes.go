package routes

import (
	"github.com/gin-gonic/gin"

	"travel-booking-server/jobs"
	"travel-booking-server/services"
)

// Shared collaborators for the handlers in this package, wired once from main.
var (
	mail       *services.MailService
	pdfService *services.PDFService
	newsletter *jobs.NewsletterJob
)

// Setup injects the collaborators the handlers depend on.
func Setup(m *services.MailService, p *services.PDFService, n *jobs.NewsletterJob) {
	mail = m
	pdfService = p
	newsletter = n
}

// Register mounts every route group on the API router.
func Register(api *gin.RouterGroup) {
	RegisterAuthRoutes(api.Group("/auth"))
	RegisterUserRoutes(api)
	RegisterListingRoutes(api)
	RegisterBookingRoutes(api)
	RegisterDestinationRoutes(api)
	RegisterBlogRoutes(api)
	RegisterComplaintRoutes(api)
	RegisterSubscriptionRoutes(api)
}
