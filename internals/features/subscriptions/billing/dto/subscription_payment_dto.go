// file: internals/features/subscriptions/billing/dto/subscription_payment_dto.go
package dto

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"tutorku_backend/internals/features/subscriptions/billing/model"
)

type CreateCheckoutRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type SubscriptionPaymentResponse struct {
	SubscriptionPaymentID             uuid.UUID  `json:"subscription_payment_id"`
	SubscriptionPaymentSubscriptionID uuid.UUID  `json:"subscription_payment_subscription_id"`
	SubscriptionPaymentOrderID        string     `json:"subscription_payment_order_id"`
	SubscriptionPaymentAmount         int64      `json:"subscription_payment_amount"`
	SubscriptionPaymentStatus         string     `json:"subscription_payment_status"`
	SubscriptionPaymentPaidAt         *time.Time `json:"subscription_payment_paid_at,omitempty"`
	SubscriptionPaymentSnapToken      *string    `json:"subscription_payment_snap_token,omitempty"`
	SubscriptionPaymentRedirectURL    *string    `json:"subscription_payment_redirect_url,omitempty"`
	SubscriptionPaymentCreatedAt      time.Time  `json:"subscription_payment_created_at"`
}

func NewSubscriptionPaymentResponse(m *model.SubscriptionPaymentModel) *SubscriptionPaymentResponse {
	return &SubscriptionPaymentResponse{
		SubscriptionPaymentID:             m.SubscriptionPaymentID,
		SubscriptionPaymentSubscriptionID: m.SubscriptionPaymentSubscriptionID,
		SubscriptionPaymentOrderID:        m.SubscriptionPaymentOrderID,
		SubscriptionPaymentAmount:         m.SubscriptionPaymentAmount,
		SubscriptionPaymentStatus:         m.SubscriptionPaymentStatus,
		SubscriptionPaymentPaidAt:         m.SubscriptionPaymentPaidAt,
		SubscriptionPaymentSnapToken:      m.SubscriptionPaymentSnapToken,
		SubscriptionPaymentRedirectURL:    m.SubscriptionPaymentRedirectURL,
		SubscriptionPaymentCreatedAt:      m.SubscriptionPaymentCreatedAt,
	}
}

const orderIDCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderID: PAY-YYYYMMDD-XXXXXX
func GenerateOrderID(now time.Time) string {
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		sb.WriteByte(orderIDCharset[rand.Intn(len(orderIDCharset))])
	}
	return fmt.Sprintf("PAY-%s-%s", now.Format("20060102"), sb.String())
}
