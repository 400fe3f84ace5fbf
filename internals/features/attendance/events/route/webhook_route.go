// file: internals/features/attendance/events/route/webhook_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventController "tutorku_backend/internals/features/attendance/events/controller"
	recordsvc "tutorku_backend/internals/features/attendance/records/service"
)

// Webhook provider meeting — tanpa JWT, dilindungi rate limiter webhook
func MeetingEventWebhookRoutes(r fiber.Router, db *gorm.DB, agg *recordsvc.AggregatorService) {
	ctrl := eventController.NewMeetingEventController(db, agg)
	r.Post("/meeting-events", ctrl.HandleMeetingEvent)
}

// Audit trail event — khusus teacher/admin
func AttendanceEventAdminRoutes(r fiber.Router, db *gorm.DB, agg *recordsvc.AggregatorService) {
	ctrl := eventController.NewMeetingEventController(db, agg)
	events := r.Group("/attendance-events")
	events.Get("/:session_id", ctrl.ListSessionEvents)
}
