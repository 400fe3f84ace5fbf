// file: internals/features/attendance/events/dto/attendance_event_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"tutorku_backend/internals/features/attendance/events/model"
)

// Payload webhook dari provider meeting (Zoom/Meet dsb, sudah dinormalisasi gateway)
type MeetingEventWebhookRequest struct {
	SessionID       uuid.UUID `json:"session_id" validate:"required"`
	ParticipantID   uuid.UUID `json:"participant_id" validate:"required"`
	ProviderEventID string    `json:"provider_event_id" validate:"required,max=120"`
	Kind            string    `json:"event_type" validate:"required,oneof=joined left reconnect aborted"`
	OccurredAt      time.Time `json:"occurred_at" validate:"required"`
}

func (r *MeetingEventWebhookRequest) ToModel() *model.AttendanceEventModel {
	return &model.AttendanceEventModel{
		AttendanceEventSessionID:       r.SessionID,
		AttendanceEventParticipantID:   r.ParticipantID,
		AttendanceEventProviderEventID: r.ProviderEventID,
		AttendanceEventKind:            r.Kind,
		AttendanceEventOccurredAt:      r.OccurredAt,
	}
}

type AttendanceEventResponse struct {
	AttendanceEventID              uuid.UUID `json:"attendance_event_id"`
	AttendanceEventSessionID       uuid.UUID `json:"attendance_event_session_id"`
	AttendanceEventParticipantID   uuid.UUID `json:"attendance_event_participant_id"`
	AttendanceEventProviderEventID string    `json:"attendance_event_provider_event_id"`
	AttendanceEventKind            string    `json:"attendance_event_kind"`
	AttendanceEventOccurredAt      time.Time `json:"attendance_event_occurred_at"`
	AttendanceEventCreatedAt       time.Time `json:"attendance_event_created_at"`
}

func NewAttendanceEventResponse(m *model.AttendanceEventModel) *AttendanceEventResponse {
	return &AttendanceEventResponse{
		AttendanceEventID:              m.AttendanceEventID,
		AttendanceEventSessionID:       m.AttendanceEventSessionID,
		AttendanceEventParticipantID:   m.AttendanceEventParticipantID,
		AttendanceEventProviderEventID: m.AttendanceEventProviderEventID,
		AttendanceEventKind:            m.AttendanceEventKind,
		AttendanceEventOccurredAt:      m.AttendanceEventOccurredAt,
		AttendanceEventCreatedAt:       m.AttendanceEventCreatedAt,
	}
}
