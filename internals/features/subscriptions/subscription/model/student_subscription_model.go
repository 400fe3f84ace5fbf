package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentSubscriptionModel struct {
	StudentSubscriptionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_subscription_id" json:"student_subscription_id"`

	StudentSubscriptionStudentID uuid.UUID `gorm:"type:uuid;not null;index;column:student_subscription_student_id" json:"student_subscription_student_id"`

	// ✅ Tagged reference: tepat SATU unit belajar per langganan
	// (individual_circle | group_circle | course) — bukan morph dinamis
	StudentSubscriptionUnitKind string    `gorm:"type:varchar(20);not null;column:student_subscription_unit_kind" json:"student_subscription_unit_kind"`
	StudentSubscriptionUnitID   uuid.UUID `gorm:"type:uuid;not null;column:student_subscription_unit_id"          json:"student_subscription_unit_id"`

	StudentSubscriptionCode string `gorm:"type:varchar(40);uniqueIndex;column:student_subscription_code" json:"student_subscription_code"`

	// Counter kredit sesi — invariant: used + remaining == total, remaining >= 0,
	// 0 <= reserved <= remaining
	StudentSubscriptionTotalSessions     int `gorm:"not null;default:0;column:student_subscription_total_sessions"     json:"student_subscription_total_sessions"`
	StudentSubscriptionUsedSessions      int `gorm:"not null;default:0;column:student_subscription_used_sessions"      json:"student_subscription_used_sessions"`
	StudentSubscriptionRemainingSessions int `gorm:"not null;default:0;column:student_subscription_remaining_sessions" json:"student_subscription_remaining_sessions"`
	StudentSubscriptionReservedSessions  int `gorm:"not null;default:0;column:student_subscription_reserved_sessions"  json:"student_subscription_reserved_sessions"`

	StudentSubscriptionStatus        string `gorm:"type:varchar(20);not null;default:'pending';index;column:student_subscription_status"  json:"student_subscription_status"`
	StudentSubscriptionPaymentStatus string `gorm:"type:varchar(20);not null;default:'pending';column:student_subscription_payment_status" json:"student_subscription_payment_status"`
	StudentSubscriptionBillingCycle  string `gorm:"type:varchar(20);not null;default:'monthly';column:student_subscription_billing_cycle"  json:"student_subscription_billing_cycle"`

	// Semua NULL selama payment_status != paid — langganan tidak boleh
	// terlihat aktif sebelum pembayaran clear
	StudentSubscriptionStartsAt        *time.Time `gorm:"column:student_subscription_starts_at"          json:"student_subscription_starts_at,omitempty"`
	StudentSubscriptionEndsAt          *time.Time `gorm:"column:student_subscription_ends_at"            json:"student_subscription_ends_at,omitempty"`
	StudentSubscriptionNextBillingDate *time.Time `gorm:"index;column:student_subscription_next_billing_date" json:"student_subscription_next_billing_date,omitempty"`
	StudentSubscriptionLastPaymentAt   *time.Time `gorm:"column:student_subscription_last_payment_at"    json:"student_subscription_last_payment_at,omitempty"`

	StudentSubscriptionPausedAt    *time.Time `gorm:"column:student_subscription_paused_at"    json:"student_subscription_paused_at,omitempty"`
	StudentSubscriptionPauseReason *string    `gorm:"column:student_subscription_pause_reason" json:"student_subscription_pause_reason,omitempty"`

	StudentSubscriptionCancelledAt        *time.Time `gorm:"column:student_subscription_cancelled_at"         json:"student_subscription_cancelled_at,omitempty"`
	StudentSubscriptionCancellationReason *string    `gorm:"column:student_subscription_cancellation_reason"  json:"student_subscription_cancellation_reason,omitempty"`

	StudentSubscriptionAutoRenew          bool `gorm:"not null;default:true;column:student_subscription_auto_renew"            json:"student_subscription_auto_renew"`
	StudentSubscriptionRenewalFailedCount int  `gorm:"not null;default:0;column:student_subscription_renewal_failed_count"     json:"student_subscription_renewal_failed_count"`

	StudentSubscriptionCreatedAt time.Time      `gorm:"column:student_subscription_created_at;autoCreateTime" json:"student_subscription_created_at"`
	StudentSubscriptionUpdatedAt *time.Time     `gorm:"column:student_subscription_updated_at;autoUpdateTime" json:"student_subscription_updated_at,omitempty"`
	StudentSubscriptionDeletedAt gorm.DeletedAt `gorm:"column:student_subscription_deleted_at;index"          json:"student_subscription_deleted_at,omitempty"`
}

func (StudentSubscriptionModel) TableName() string { return "student_subscriptions" }

// IsExhausted: habis kredit adalah derived read, bukan status tersimpan
func (m *StudentSubscriptionModel) IsExhausted() bool {
	return m.StudentSubscriptionStatus == "active" && m.StudentSubscriptionRemainingSessions == 0
}
