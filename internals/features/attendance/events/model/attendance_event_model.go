// file: internals/features/attendance/events/model/attendance_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =========================================================
 * MEETING ATTENDANCE EVENTS (append-only)
 *
 * Log mentah dari provider meeting. Baris tidak pernah
 * diupdate/dihapus — dedup lewat unique index
 * (session, participant, provider_event_id).
 * ========================================================= */

type AttendanceEventModel struct {
	AttendanceEventID uuid.UUID `json:"attendance_event_id" gorm:"column:attendance_event_id;type:uuid;default:gen_random_uuid();primaryKey"`

	AttendanceEventSessionID     uuid.UUID `json:"attendance_event_session_id" gorm:"column:attendance_event_session_id;type:uuid;not null;index:idx_attendance_event_session_participant_time,priority:1;uniqueIndex:uq_attendance_event_provider,priority:1"`
	AttendanceEventParticipantID uuid.UUID `json:"attendance_event_participant_id" gorm:"column:attendance_event_participant_id;type:uuid;not null;index:idx_attendance_event_session_participant_time,priority:2;uniqueIndex:uq_attendance_event_provider,priority:2"`

	// ID event dari sisi provider — kunci idempoten
	AttendanceEventProviderEventID string `json:"attendance_event_provider_event_id" gorm:"column:attendance_event_provider_event_id;type:varchar(120);not null;uniqueIndex:uq_attendance_event_provider,priority:3"`

	// joined | left | reconnect | aborted
	AttendanceEventKind string `json:"attendance_event_kind" gorm:"column:attendance_event_kind;type:varchar(20);not null"`

	AttendanceEventOccurredAt time.Time `json:"attendance_event_occurred_at" gorm:"column:attendance_event_occurred_at;not null;index:idx_attendance_event_session_participant_time,priority:3"`

	AttendanceEventCreatedAt time.Time `json:"attendance_event_created_at" gorm:"column:attendance_event_created_at;autoCreateTime"`
}

func (AttendanceEventModel) TableName() string {
	return "meeting_attendance_events"
}
