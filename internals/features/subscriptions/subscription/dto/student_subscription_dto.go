// file: internals/features/subscriptions/subscription/dto/student_subscription_dto.go
package dto

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	m "tutorku_backend/internals/features/subscriptions/subscription/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Create (JSON) — langganan lahir pending tanpa tanggal; tanggal diisi
// saat konfirmasi pembayaran masuk
type CreateStudentSubscriptionRequest struct {
	StudentSubscriptionStudentID uuid.UUID `json:"student_subscription_student_id" validate:"required,uuid4"`

	StudentSubscriptionUnitKind string    `json:"student_subscription_unit_kind" validate:"required,oneof=individual_circle group_circle course"`
	StudentSubscriptionUnitID   uuid.UUID `json:"student_subscription_unit_id"   validate:"required,uuid4"`

	StudentSubscriptionTotalSessions int    `json:"student_subscription_total_sessions" validate:"required,min=1,max=365"`
	StudentSubscriptionBillingCycle  string `json:"student_subscription_billing_cycle"  validate:"required,oneof=monthly quarterly yearly"`
}

type PauseStudentSubscriptionRequest struct {
	StudentSubscriptionPauseReason *string `json:"student_subscription_pause_reason" validate:"omitempty,max=500"`
}

type CancelStudentSubscriptionRequest struct {
	StudentSubscriptionCancellationReason *string `json:"student_subscription_cancellation_reason" validate:"omitempty,max=500"`
}

// Filter / List (query)
type FilterStudentSubscriptionRequest struct {
	StudentID *uuid.UUID `query:"student_id" validate:"omitempty,uuid4"`
	Status    *string    `query:"status" validate:"omitempty,oneof=pending active paused cancelled"`

	Page  *int `query:"page"  validate:"omitempty,min=1"`
	Limit *int `query:"limit" validate:"omitempty,min=1,max=200"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type StudentSubscriptionResponse struct {
	StudentSubscriptionID        uuid.UUID `json:"student_subscription_id"`
	StudentSubscriptionStudentID uuid.UUID `json:"student_subscription_student_id"`
	StudentSubscriptionUnitKind  string    `json:"student_subscription_unit_kind"`
	StudentSubscriptionUnitID    uuid.UUID `json:"student_subscription_unit_id"`
	StudentSubscriptionCode      string    `json:"student_subscription_code"`

	StudentSubscriptionTotalSessions     int `json:"student_subscription_total_sessions"`
	StudentSubscriptionUsedSessions      int `json:"student_subscription_used_sessions"`
	StudentSubscriptionRemainingSessions int `json:"student_subscription_remaining_sessions"`
	StudentSubscriptionReservedSessions  int `json:"student_subscription_reserved_sessions"`

	StudentSubscriptionStatus        string `json:"student_subscription_status"`
	StudentSubscriptionPaymentStatus string `json:"student_subscription_payment_status"`
	StudentSubscriptionBillingCycle  string `json:"student_subscription_billing_cycle"`
	StudentSubscriptionIsExhausted   bool   `json:"student_subscription_is_exhausted"`

	StudentSubscriptionStartsAt        *time.Time `json:"student_subscription_starts_at,omitempty"`
	StudentSubscriptionEndsAt          *time.Time `json:"student_subscription_ends_at,omitempty"`
	StudentSubscriptionNextBillingDate *time.Time `json:"student_subscription_next_billing_date,omitempty"`
	StudentSubscriptionPausedAt        *time.Time `json:"student_subscription_paused_at,omitempty"`

	StudentSubscriptionCreatedAt time.Time `json:"student_subscription_created_at"`
}

// CreditSnapshotResponse: snapshot kredit read-only untuk konsumen
// reporting/notifikasi (eventually consistent terhadap agregasi berjalan)
type CreditSnapshotResponse struct {
	StudentSubscriptionID                uuid.UUID `json:"student_subscription_id"`
	StudentSubscriptionTotalSessions     int       `json:"student_subscription_total_sessions"`
	StudentSubscriptionUsedSessions      int       `json:"student_subscription_used_sessions"`
	StudentSubscriptionRemainingSessions int       `json:"student_subscription_remaining_sessions"`
	StudentSubscriptionReservedSessions  int       `json:"student_subscription_reserved_sessions"`
	StudentSubscriptionStatus            string    `json:"student_subscription_status"`
	StudentSubscriptionIsExhausted       bool      `json:"student_subscription_is_exhausted"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CreateStudentSubscriptionRequest) ToModel() m.StudentSubscriptionModel {
	return m.StudentSubscriptionModel{
		StudentSubscriptionStudentID:         r.StudentSubscriptionStudentID,
		StudentSubscriptionUnitKind:          r.StudentSubscriptionUnitKind,
		StudentSubscriptionUnitID:            r.StudentSubscriptionUnitID,
		StudentSubscriptionCode:              GenerateSubscriptionCode(),
		StudentSubscriptionTotalSessions:     r.StudentSubscriptionTotalSessions,
		StudentSubscriptionUsedSessions:      0,
		StudentSubscriptionRemainingSessions: r.StudentSubscriptionTotalSessions,
		StudentSubscriptionReservedSessions:  0,
		StudentSubscriptionStatus:            "pending",
		StudentSubscriptionPaymentStatus:     "pending",
		StudentSubscriptionBillingCycle:      r.StudentSubscriptionBillingCycle,
	}
}

func NewStudentSubscriptionResponse(mdl m.StudentSubscriptionModel) StudentSubscriptionResponse {
	return StudentSubscriptionResponse{
		StudentSubscriptionID:                mdl.StudentSubscriptionID,
		StudentSubscriptionStudentID:         mdl.StudentSubscriptionStudentID,
		StudentSubscriptionUnitKind:          mdl.StudentSubscriptionUnitKind,
		StudentSubscriptionUnitID:            mdl.StudentSubscriptionUnitID,
		StudentSubscriptionCode:              mdl.StudentSubscriptionCode,
		StudentSubscriptionTotalSessions:     mdl.StudentSubscriptionTotalSessions,
		StudentSubscriptionUsedSessions:      mdl.StudentSubscriptionUsedSessions,
		StudentSubscriptionRemainingSessions: mdl.StudentSubscriptionRemainingSessions,
		StudentSubscriptionReservedSessions:  mdl.StudentSubscriptionReservedSessions,
		StudentSubscriptionStatus:            mdl.StudentSubscriptionStatus,
		StudentSubscriptionPaymentStatus:     mdl.StudentSubscriptionPaymentStatus,
		StudentSubscriptionBillingCycle:      mdl.StudentSubscriptionBillingCycle,
		StudentSubscriptionIsExhausted:       mdl.IsExhausted(),
		StudentSubscriptionStartsAt:          mdl.StudentSubscriptionStartsAt,
		StudentSubscriptionEndsAt:            mdl.StudentSubscriptionEndsAt,
		StudentSubscriptionNextBillingDate:   mdl.StudentSubscriptionNextBillingDate,
		StudentSubscriptionPausedAt:          mdl.StudentSubscriptionPausedAt,
		StudentSubscriptionCreatedAt:         mdl.StudentSubscriptionCreatedAt,
	}
}

func NewCreditSnapshotResponse(mdl m.StudentSubscriptionModel) CreditSnapshotResponse {
	return CreditSnapshotResponse{
		StudentSubscriptionID:                mdl.StudentSubscriptionID,
		StudentSubscriptionTotalSessions:     mdl.StudentSubscriptionTotalSessions,
		StudentSubscriptionUsedSessions:      mdl.StudentSubscriptionUsedSessions,
		StudentSubscriptionRemainingSessions: mdl.StudentSubscriptionRemainingSessions,
		StudentSubscriptionReservedSessions:  mdl.StudentSubscriptionReservedSessions,
		StudentSubscriptionStatus:            mdl.StudentSubscriptionStatus,
		StudentSubscriptionIsExhausted:       mdl.IsExhausted(),
	}
}

// GenerateSubscriptionCode bikin kode unik SUB-YYYYMMDD-XXXXXX
func GenerateSubscriptionCode() string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("SUB-%s-%s", time.Now().Format("20060102"), string(b))
}
