package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionConsumptionModel adalah idempotency marker untuk Consume:
// unik per (subscription, session), di-insert dalam transaksi yang sama
// dengan decrement kredit. Webhook completion boleh diretry berkali-kali —
// baris ini yang memastikan kredit cuma turun sekali.
type SubscriptionConsumptionModel struct {
	SubscriptionConsumptionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:subscription_consumption_id" json:"subscription_consumption_id"`

	SubscriptionConsumptionSubscriptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_subscription_consumption_sub_session,priority:1;column:subscription_consumption_subscription_id" json:"subscription_consumption_subscription_id"`
	SubscriptionConsumptionSessionID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_subscription_consumption_sub_session,priority:2;column:subscription_consumption_session_id"      json:"subscription_consumption_session_id"`

	// Snapshot counter pasca-decrement (buat audit & response retry)
	SubscriptionConsumptionUsedAfter      int `gorm:"not null;column:subscription_consumption_used_after"      json:"subscription_consumption_used_after"`
	SubscriptionConsumptionRemainingAfter int `gorm:"not null;column:subscription_consumption_remaining_after" json:"subscription_consumption_remaining_after"`

	SubscriptionConsumptionCreatedAt time.Time `gorm:"column:subscription_consumption_created_at;autoCreateTime" json:"subscription_consumption_created_at"`
}

func (SubscriptionConsumptionModel) TableName() string { return "subscription_consumptions" }
