// file: internals/features/subscriptions/billing/controller/subscription_payment_controller.go
package controller

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tutorku_backend/internals/features/subscriptions/billing/dto"
	"tutorku_backend/internals/features/subscriptions/billing/model"
	"tutorku_backend/internals/features/subscriptions/billing/service"
	helper "tutorku_backend/internals/helpers"
)

type SubscriptionPaymentController struct {
	DB      *gorm.DB
	Billing *service.BillingService
}

func NewSubscriptionPaymentController(db *gorm.DB) *SubscriptionPaymentController {
	return &SubscriptionPaymentController{
		DB:      db,
		Billing: service.NewBillingService(db),
	}
}

var validate = validator.New()

/* ===================== CHECKOUT ===================== */
// POST /api/a/subscriptions/:id/checkout
func (ctrl *SubscriptionPaymentController) CreateCheckout(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID langganan tidak valid")
	}

	var body dto.CreateCheckoutRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	orderID := dto.GenerateOrderID(time.Now())
	pay, err := ctrl.Billing.CreatePendingPayment(subID, orderID, body.Amount)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	token, redirectURL, err := service.GenerateSnapToken(*pay, "", "")
	if err != nil {
		log.Printf("[ERROR] Gagal membuat transaksi Snap untuk order %s: %v", orderID, err)
		return helper.Error(c, fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}

	if err := ctrl.DB.Model(&model.SubscriptionPaymentModel{}).
		Where("subscription_payment_id = ?", pay.SubscriptionPaymentID).
		Updates(map[string]interface{}{
			"subscription_payment_snap_token":   token,
			"subscription_payment_redirect_url": redirectURL,
		}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal menyimpan token pembayaran")
	}
	pay.SubscriptionPaymentSnapToken = &token
	pay.SubscriptionPaymentRedirectURL = &redirectURL

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Checkout berhasil dibuat", dto.NewSubscriptionPaymentResponse(pay))
}

/* ===================== WEBHOOK ===================== */

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SettlementTime    string `json:"settlement_time"`
}

// POST /api/webhooks/midtrans
func (ctrl *SubscriptionPaymentController) HandleMidtransNotification(c *fiber.Ctx) error {
	var notif midtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload notifikasi tidak valid")
	}

	if !service.VerifyNotificationSignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		log.Printf("[WARN] Signature notifikasi tidak valid untuk order %s", notif.OrderID)
		return helper.Error(c, fiber.StatusUnauthorized, "Signature tidak valid")
	}

	raw := c.Body()

	switch service.MapTransactionStatus(notif.TransactionStatus, notif.FraudStatus) {
	case service.SignalConfirmed:
		paidAt := time.Now()
		if notif.SettlementTime != "" {
			if t, err := service.ParseSettlementTime(notif.SettlementTime); err == nil {
				paidAt = t
			}
		}
		pay, err := ctrl.Billing.OnPaymentConfirmed(notif.OrderID, paidAt, raw)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.Success(c, "Pembayaran dikonfirmasi", dto.NewSubscriptionPaymentResponse(pay))

	case service.SignalFailed:
		pay, err := ctrl.Billing.OnPaymentFailed(notif.OrderID, raw)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		return helper.Success(c, "Pembayaran gagal dicatat", dto.NewSubscriptionPaymentResponse(pay))

	default:
		// pending / challenge: terima saja, tunggu notifikasi final
		return helper.Success(c, "Notifikasi diterima", fiber.Map{"order_id": notif.OrderID})
	}
}

/* ===================== READ ===================== */
// GET /api/u/payments?subscription_id=
func (ctrl *SubscriptionPaymentController) ListPayments(c *fiber.Ctx) error {
	subID, err := uuid.Parse(c.Query("subscription_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "subscription_id wajib dan harus valid")
	}

	var payments []model.SubscriptionPaymentModel
	if err := ctrl.DB.
		Where("subscription_payment_subscription_id = ?", subID).
		Order("subscription_payment_created_at DESC").
		Find(&payments).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Gagal mengambil riwayat pembayaran")
	}

	out := make([]*dto.SubscriptionPaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, dto.NewSubscriptionPaymentResponse(&payments[i]))
	}
	return helper.Success(c, "Riwayat pembayaran", out)
}
