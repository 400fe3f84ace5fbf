// file: internals/features/attendance/records/model/attendance_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
 * MEETING ATTENDANCES (hasil agregasi per peserta per sesi)
 *
 * Satu baris per (session, participant) — unique index.
 * join_leave_cycles disimpan JSON mentah supaya verdict
 * bisa diaudit ulang tanpa replay event log.
 * ========================================================= */

type AttendanceRecordModel struct {
	AttendanceRecordID uuid.UUID `json:"attendance_record_id" gorm:"column:attendance_record_id;type:uuid;default:gen_random_uuid();primaryKey"`

	AttendanceRecordSessionID     uuid.UUID `json:"attendance_record_session_id" gorm:"column:attendance_record_session_id;type:uuid;not null;uniqueIndex:uq_attendance_record_session_participant,priority:1"`
	AttendanceRecordParticipantID uuid.UUID `json:"attendance_record_participant_id" gorm:"column:attendance_record_participant_id;type:uuid;not null;uniqueIndex:uq_attendance_record_session_participant,priority:2"`

	AttendanceRecordFirstJoinAt *time.Time `json:"attendance_record_first_join_at" gorm:"column:attendance_record_first_join_at"`
	AttendanceRecordLastLeaveAt *time.Time `json:"attendance_record_last_leave_at" gorm:"column:attendance_record_last_leave_at"`

	// Pasangan join/leave hasil reduksi event, format [{"join":"...","leave":"..."}]
	AttendanceRecordJoinLeaveCycles datatypes.JSON `json:"attendance_record_join_leave_cycles" gorm:"column:attendance_record_join_leave_cycles;type:jsonb"`

	AttendanceRecordDurationSeconds int     `json:"attendance_record_duration_seconds" gorm:"column:attendance_record_duration_seconds;not null;default:0"`
	AttendanceRecordPercentage      float64 `json:"attendance_record_percentage" gorm:"column:attendance_record_percentage;not null;default:0"`

	// absent | attended | late | left
	AttendanceRecordStatus string `json:"attendance_record_status" gorm:"column:attendance_record_status;type:varchar(20);not null;default:'absent'"`

	// Freeze flags: is_calculated dikunci saat sesi final, manually_evaluated
	// dikunci operator dan tidak boleh ditimpa recompute
	AttendanceRecordIsCalculated      bool `json:"attendance_record_is_calculated" gorm:"column:attendance_record_is_calculated;not null;default:false"`
	AttendanceRecordManuallyEvaluated bool `json:"attendance_record_manually_evaluated" gorm:"column:attendance_record_manually_evaluated;not null;default:false"`

	AttendanceRecordEvaluatedBy *uuid.UUID `json:"attendance_record_evaluated_by" gorm:"column:attendance_record_evaluated_by;type:uuid"`
	AttendanceRecordEvaluatedAt *time.Time `json:"attendance_record_evaluated_at" gorm:"column:attendance_record_evaluated_at"`
	AttendanceRecordNote        *string    `json:"attendance_record_note" gorm:"column:attendance_record_note;type:text"`

	AttendanceRecordCreatedAt time.Time `json:"attendance_record_created_at" gorm:"column:attendance_record_created_at;autoCreateTime"`
	AttendanceRecordUpdatedAt time.Time `json:"attendance_record_updated_at" gorm:"column:attendance_record_updated_at;autoUpdateTime"`
}

func (AttendanceRecordModel) TableName() string {
	return "meeting_attendances"
}
