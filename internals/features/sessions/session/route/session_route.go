// file: internals/features/sessions/session/route/session_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionController "tutorku_backend/internals/features/sessions/session/controller"
	"tutorku_backend/internals/features/sessions/session/service"
)

// Teacher/admin: lifecycle penuh
func SessionAdminRoutes(r fiber.Router, db *gorm.DB, sched *service.SchedulerService) {
	ctrl := sessionController.NewClassSessionController(db, sched)

	sessions := r.Group("/sessions")
	sessions.Post("/", ctrl.ScheduleSession)
	sessions.Get("/", ctrl.ListSessions)
	sessions.Post("/:id/start", ctrl.StartSession)
	sessions.Post("/:id/complete", ctrl.CompleteSession)
	sessions.Post("/:id/cancel", ctrl.CancelSession)
	sessions.Post("/:id/reschedule", ctrl.RescheduleSession)
}

// User: read-only
func SessionUserRoutes(r fiber.Router, db *gorm.DB, sched *service.SchedulerService) {
	ctrl := sessionController.NewClassSessionController(db, sched)

	sessions := r.Group("/sessions")
	sessions.Get("/:id", ctrl.GetSession)
}
