// file: internals/features/subscriptions/billing/route/billing_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	billingController "tutorku_backend/internals/features/subscriptions/billing/controller"
)

// Webhook gateway pembayaran — tanpa JWT, verifikasi lewat signature sha512
func MidtransWebhookRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := billingController.NewSubscriptionPaymentController(db)
	r.Post("/midtrans", ctrl.HandleMidtransNotification)
}

// Admin/teacher: bikin tagihan + snap token untuk satu langganan
func BillingAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := billingController.NewSubscriptionPaymentController(db)
	r.Post("/subscriptions/:id/checkout", ctrl.CreateCheckout)
}

// User: riwayat pembayaran
func BillingUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := billingController.NewSubscriptionPaymentController(db)

	payments := r.Group("/payments")
	payments.Get("/", ctrl.ListPayments)
}
