// file: internals/features/subscriptions/billing/model/subscription_payment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
 * SUBSCRIPTION PAYMENTS
 *
 * Satu baris per tagihan siklus. order_id dipakai sebagai
 * kunci rekonsiliasi notifikasi gateway.
 * ========================================================= */

type SubscriptionPaymentModel struct {
	SubscriptionPaymentID uuid.UUID `json:"subscription_payment_id" gorm:"column:subscription_payment_id;type:uuid;default:gen_random_uuid();primaryKey"`

	SubscriptionPaymentSubscriptionID uuid.UUID `json:"subscription_payment_subscription_id" gorm:"column:subscription_payment_subscription_id;type:uuid;not null;index"`

	// Order ID yang dikirim ke gateway, format PAY-YYYYMMDD-XXXXXX
	SubscriptionPaymentOrderID string `json:"subscription_payment_order_id" gorm:"column:subscription_payment_order_id;type:varchar(64);not null;uniqueIndex"`

	SubscriptionPaymentAmount int64 `json:"subscription_payment_amount" gorm:"column:subscription_payment_amount;not null"`

	// pending | paid | failed | overdue
	SubscriptionPaymentStatus string `json:"subscription_payment_status" gorm:"column:subscription_payment_status;type:varchar(20);not null;default:'pending'"`

	SubscriptionPaymentPaidAt   *time.Time `json:"subscription_payment_paid_at" gorm:"column:subscription_payment_paid_at"`
	SubscriptionPaymentFailedAt *time.Time `json:"subscription_payment_failed_at" gorm:"column:subscription_payment_failed_at"`

	// Token + redirect URL Snap, dan payload notifikasi terakhir untuk audit
	SubscriptionPaymentSnapToken   *string        `json:"subscription_payment_snap_token" gorm:"column:subscription_payment_snap_token;type:varchar(255)"`
	SubscriptionPaymentRedirectURL *string        `json:"subscription_payment_redirect_url" gorm:"column:subscription_payment_redirect_url;type:text"`
	SubscriptionPaymentRawNotif    datatypes.JSON `json:"subscription_payment_raw_notif" gorm:"column:subscription_payment_raw_notif;type:jsonb"`

	SubscriptionPaymentCreatedAt time.Time `json:"subscription_payment_created_at" gorm:"column:subscription_payment_created_at;autoCreateTime"`
	SubscriptionPaymentUpdatedAt time.Time `json:"subscription_payment_updated_at" gorm:"column:subscription_payment_updated_at;autoUpdateTime"`
}

func (SubscriptionPaymentModel) TableName() string {
	return "subscription_payments"
}
