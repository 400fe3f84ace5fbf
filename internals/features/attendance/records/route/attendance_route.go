// file: internals/features/attendance/records/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/constants"
	recordController "tutorku_backend/internals/features/attendance/records/controller"
	"tutorku_backend/internals/features/attendance/records/service"
	authMiddleware "tutorku_backend/internals/middlewares/auth"
)

// Teacher/admin: rekap, recompute paksa, evaluasi manual
func AttendanceAdminRoutes(r fiber.Router, db *gorm.DB, agg *service.AggregatorService) {
	ctrl := recordController.NewAttendanceRecordController(db, agg)

	r.Get("/sessions/:session_id/attendance", ctrl.ListSessionAttendance)
	r.Get("/sessions/:session_id/attendance/stats", ctrl.GetSessionStats)
	// recompute paksa menimpa hasil live — khusus admin
	r.Post("/sessions/:session_id/attendance/recompute",
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("recompute kehadiran"), constants.AdminOnly...),
		ctrl.RecomputeSession)
	r.Put("/sessions/:session_id/attendance/:participant_id", ctrl.ManualEvaluate)
}

// User: lihat rekap sesi / rekap diri sendiri
func AttendanceUserRoutes(r fiber.Router, db *gorm.DB, agg *service.AggregatorService) {
	ctrl := recordController.NewAttendanceRecordController(db, agg)

	r.Get("/sessions/:session_id/attendance", ctrl.ListSessionAttendance)
	r.Get("/sessions/:session_id/attendance/stats", ctrl.GetSessionStats)
	r.Get("/sessions/:session_id/attendance/:participant_id", ctrl.GetAttendance)
}
