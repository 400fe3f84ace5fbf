// file: internals/route/setup.go
package route

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorku_backend/internals/constants"
	eventRoute "tutorku_backend/internals/features/attendance/events/route"
	recordRoute "tutorku_backend/internals/features/attendance/records/route"
	recordsvc "tutorku_backend/internals/features/attendance/records/service"
	sessionRoute "tutorku_backend/internals/features/sessions/session/route"
	sessionService "tutorku_backend/internals/features/sessions/session/service"
	billingRoute "tutorku_backend/internals/features/subscriptions/billing/route"
	subscriptionRoute "tutorku_backend/internals/features/subscriptions/subscription/route"
	helper "tutorku_backend/internals/helpers"
	"tutorku_backend/internals/middlewares"
	authMiddleware "tutorku_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	aggregator := recordsvc.NewAggregatorService(db)
	scheduler := sessionService.NewSchedulerService(db)

	// ===================== BASE =====================
	app.Get("/health", func(c *fiber.Ctx) error {
		// koneksi diset DBMiddleware di Locals
		conn, ok := c.Locals("db").(*gorm.DB)
		if !ok {
			conn = db
		}
		sqlDB, err := conn.DB()
		if err != nil || sqlDB.Ping() != nil {
			return helper.Error(c, fiber.StatusServiceUnavailable, "Database tidak sehat")
		}
		return helper.Success(c, "OK", fiber.Map{
			"uptime": time.Since(startTime).String(),
		})
	})

	// ===================== WEBHOOKS (tanpa JWT) =====================
	log.Println("[INFO] Setting up WEBHOOK group...")
	webhooks := app.Group("/api/webhooks", middlewares.WebhookRateLimiter())
	eventRoute.MeetingEventWebhookRoutes(webhooks, db, aggregator)
	billingRoute.MidtransWebhookRoutes(webhooks, db)

	// ===================== ADMIN (teacher ke atas) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(),
		authMiddleware.OnlyRoles(constants.RoleErrorTeacher("manajemen langganan & sesi"), constants.TeacherAndAbove...),
	)
	subscriptionRoute.SubscriptionAdminRoutes(admin, db)
	billingRoute.BillingAdminRoutes(admin, db)
	sessionRoute.SessionAdminRoutes(admin, db, scheduler)
	recordRoute.AttendanceAdminRoutes(admin, db, aggregator)
	eventRoute.AttendanceEventAdminRoutes(admin, db, aggregator)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware())
	subscriptionRoute.SubscriptionUserRoutes(private, db)
	sessionRoute.SessionUserRoutes(private, db, scheduler)
	recordRoute.AttendanceUserRoutes(private, db, aggregator)
	billingRoute.BillingUserRoutes(private, db)
}
