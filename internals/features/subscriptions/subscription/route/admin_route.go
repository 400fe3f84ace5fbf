package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subCtl "tutorku_backend/internals/features/subscriptions/subscription/controller"
)

// SubscriptionAdminRoutes: mutasi langganan (dipasang di group admin/teacher)
func SubscriptionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subCtl.NewStudentSubscriptionController(db)

	subs := r.Group("/subscriptions")

	subs.Post("/", ctl.CreateSubscription)          // POST   /subscriptions
	subs.Get("/", ctl.ListSubscriptions)            // GET    /subscriptions
	subs.Post("/:id/pause", ctl.PauseSubscription)  // POST   /subscriptions/:id/pause
	subs.Post("/:id/resume", ctl.ResumeSubscription) // POST  /subscriptions/:id/resume
	subs.Post("/:id/cancel", ctl.CancelSubscription) // POST  /subscriptions/:id/cancel
}

// SubscriptionUserRoutes: read-only untuk konsumen reporting/notifikasi
func SubscriptionUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := subCtl.NewStudentSubscriptionController(db)

	subs := r.Group("/subscriptions")
	subs.Get("/:id", ctl.GetSubscription)        // GET /subscriptions/:id
	subs.Get("/:id/credit", ctl.GetCreditSnapshot) // GET /subscriptions/:id/credit
}
