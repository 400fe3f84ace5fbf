// file: internals/features/attendance/records/dto/attendance_record_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tutorku_backend/internals/features/attendance/records/model"
)

type ManualEvaluationRequest struct {
	Status     string   `json:"status" validate:"required,oneof=absent attended late left"`
	Percentage *float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	Note       *string  `json:"note" validate:"omitempty,max=500"`
}

// Agregat satu sesi untuk reporting
type SessionAttendanceStatsResponse struct {
	SessionID          uuid.UUID      `json:"session_id"`
	TotalParticipants  int64          `json:"total_participants"`
	CountsByStatus     map[string]int `json:"counts_by_status"`
	AveragePercentage  float64        `json:"average_percentage"`
	AverageDurationSec float64        `json:"average_duration_seconds"`
}

type AttendanceRecordResponse struct {
	AttendanceRecordID                uuid.UUID      `json:"attendance_record_id"`
	AttendanceRecordSessionID         uuid.UUID      `json:"attendance_record_session_id"`
	AttendanceRecordParticipantID     uuid.UUID      `json:"attendance_record_participant_id"`
	AttendanceRecordFirstJoinAt       *time.Time     `json:"attendance_record_first_join_at"`
	AttendanceRecordLastLeaveAt       *time.Time     `json:"attendance_record_last_leave_at"`
	AttendanceRecordJoinLeaveCycles   datatypes.JSON `json:"attendance_record_join_leave_cycles"`
	AttendanceRecordDurationSeconds   int            `json:"attendance_record_duration_seconds"`
	AttendanceRecordPercentage        float64        `json:"attendance_record_percentage"`
	AttendanceRecordStatus            string         `json:"attendance_record_status"`
	AttendanceRecordIsCalculated      bool           `json:"attendance_record_is_calculated"`
	AttendanceRecordManuallyEvaluated bool           `json:"attendance_record_manually_evaluated"`
	AttendanceRecordEvaluatedBy       *uuid.UUID     `json:"attendance_record_evaluated_by"`
	AttendanceRecordEvaluatedAt       *time.Time     `json:"attendance_record_evaluated_at"`
	AttendanceRecordNote              *string        `json:"attendance_record_note"`
	AttendanceRecordUpdatedAt         time.Time      `json:"attendance_record_updated_at"`
}

func NewAttendanceRecordResponse(m *model.AttendanceRecordModel) *AttendanceRecordResponse {
	return &AttendanceRecordResponse{
		AttendanceRecordID:                m.AttendanceRecordID,
		AttendanceRecordSessionID:         m.AttendanceRecordSessionID,
		AttendanceRecordParticipantID:     m.AttendanceRecordParticipantID,
		AttendanceRecordFirstJoinAt:       m.AttendanceRecordFirstJoinAt,
		AttendanceRecordLastLeaveAt:       m.AttendanceRecordLastLeaveAt,
		AttendanceRecordJoinLeaveCycles:   m.AttendanceRecordJoinLeaveCycles,
		AttendanceRecordDurationSeconds:   m.AttendanceRecordDurationSeconds,
		AttendanceRecordPercentage:        m.AttendanceRecordPercentage,
		AttendanceRecordStatus:            m.AttendanceRecordStatus,
		AttendanceRecordIsCalculated:      m.AttendanceRecordIsCalculated,
		AttendanceRecordManuallyEvaluated: m.AttendanceRecordManuallyEvaluated,
		AttendanceRecordEvaluatedBy:       m.AttendanceRecordEvaluatedBy,
		AttendanceRecordEvaluatedAt:       m.AttendanceRecordEvaluatedAt,
		AttendanceRecordNote:              m.AttendanceRecordNote,
		AttendanceRecordUpdatedAt:         m.AttendanceRecordUpdatedAt,
	}
}
