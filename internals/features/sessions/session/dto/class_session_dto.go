// file: internals/features/sessions/session/dto/class_session_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "tutorku_backend/internals/features/sessions/session/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type ScheduleClassSessionRequest struct {
	ClassSessionSubscriptionID uuid.UUID `json:"class_session_subscription_id" validate:"required,uuid4"`

	ClassSessionScheduledStartAt time.Time `json:"class_session_scheduled_start_at" validate:"required"`
	ClassSessionScheduledEndAt   time.Time `json:"class_session_scheduled_end_at"   validate:"required,gtfield=ClassSessionScheduledStartAt"`

	// false untuk sesi trial/makeup yang tidak memotong kredit
	ClassSessionCountsTowardSubscription *bool `json:"class_session_counts_toward_subscription" validate:"omitempty"`

	ClassSessionTitle *string `json:"class_session_title" validate:"omitempty,max=160"`
	ClassSessionNote  *string `json:"class_session_note"  validate:"omitempty,max=2000"`
}

type CompleteClassSessionRequest struct {
	ClassSessionActualEndAt *time.Time `json:"class_session_actual_end_at" validate:"omitempty"`
}

type CancelClassSessionRequest struct {
	ClassSessionCancelledBy  string  `json:"class_session_cancelled_by"  validate:"required,oneof=teacher student system"`
	ClassSessionCancelReason *string `json:"class_session_cancel_reason" validate:"omitempty,max=500"`

	// Kebijakan open-question: khusus pembatalan oleh student, caller yang
	// memutuskan apakah sesi tetap memotong kredit. Nil → default kebijakan.
	ClassSessionStudentCancellationCounts *bool `json:"class_session_student_cancellation_counts" validate:"omitempty"`
}

type RescheduleClassSessionRequest struct {
	ClassSessionScheduledStartAt time.Time `json:"class_session_scheduled_start_at" validate:"required"`
	ClassSessionScheduledEndAt   time.Time `json:"class_session_scheduled_end_at"   validate:"required,gtfield=ClassSessionScheduledStartAt"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type ClassSessionResponse struct {
	ClassSessionID             uuid.UUID `json:"class_session_id"`
	ClassSessionSubscriptionID uuid.UUID `json:"class_session_subscription_id"`

	ClassSessionScheduledStartAt time.Time  `json:"class_session_scheduled_start_at"`
	ClassSessionScheduledEndAt   time.Time  `json:"class_session_scheduled_end_at"`
	ClassSessionActualStartAt    *time.Time `json:"class_session_actual_start_at,omitempty"`
	ClassSessionActualEndAt      *time.Time `json:"class_session_actual_end_at,omitempty"`

	ClassSessionStatus                   string     `json:"class_session_status"`
	ClassSessionCountsTowardSubscription bool       `json:"class_session_counts_toward_subscription"`
	ClassSessionRescheduledFromID        *uuid.UUID `json:"class_session_rescheduled_from_id,omitempty"`

	ClassSessionCancelledBy  *string `json:"class_session_cancelled_by,omitempty"`
	ClassSessionCancelReason *string `json:"class_session_cancel_reason,omitempty"`
	ClassSessionCompletedBy  *string `json:"class_session_completed_by,omitempty"`

	ClassSessionTitle *string `json:"class_session_title,omitempty"`

	ClassSessionCreatedAt time.Time `json:"class_session_created_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r ScheduleClassSessionRequest) ToModel() m.ClassSessionModel {
	counts := true
	if r.ClassSessionCountsTowardSubscription != nil {
		counts = *r.ClassSessionCountsTowardSubscription
	}
	return m.ClassSessionModel{
		ClassSessionSubscriptionID:           r.ClassSessionSubscriptionID,
		ClassSessionScheduledStartAt:         r.ClassSessionScheduledStartAt,
		ClassSessionScheduledEndAt:           r.ClassSessionScheduledEndAt,
		ClassSessionStatus:                   "scheduled",
		ClassSessionCountsTowardSubscription: counts,
		ClassSessionTitle:                    r.ClassSessionTitle,
		ClassSessionNote:                     r.ClassSessionNote,
	}
}

func NewClassSessionResponse(mdl m.ClassSessionModel) ClassSessionResponse {
	return ClassSessionResponse{
		ClassSessionID:                       mdl.ClassSessionID,
		ClassSessionSubscriptionID:           mdl.ClassSessionSubscriptionID,
		ClassSessionScheduledStartAt:         mdl.ClassSessionScheduledStartAt,
		ClassSessionScheduledEndAt:           mdl.ClassSessionScheduledEndAt,
		ClassSessionActualStartAt:            mdl.ClassSessionActualStartAt,
		ClassSessionActualEndAt:              mdl.ClassSessionActualEndAt,
		ClassSessionStatus:                   mdl.ClassSessionStatus,
		ClassSessionCountsTowardSubscription: mdl.ClassSessionCountsTowardSubscription,
		ClassSessionRescheduledFromID:        mdl.ClassSessionRescheduledFromID,
		ClassSessionCancelledBy:              mdl.ClassSessionCancelledBy,
		ClassSessionCancelReason:             mdl.ClassSessionCancelReason,
		ClassSessionCompletedBy:              mdl.ClassSessionCompletedBy,
		ClassSessionTitle:                    mdl.ClassSessionTitle,
		ClassSessionCreatedAt:                mdl.ClassSessionCreatedAt,
	}
}
