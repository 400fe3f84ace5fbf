package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassSessionModel struct {
	ClassSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_session_id" json:"class_session_id"`

	ClassSessionSubscriptionID uuid.UUID `gorm:"type:uuid;not null;index;column:class_session_subscription_id" json:"class_session_subscription_id"`

	ClassSessionScheduledStartAt time.Time  `gorm:"not null;index;column:class_session_scheduled_start_at" json:"class_session_scheduled_start_at"`
	ClassSessionScheduledEndAt   time.Time  `gorm:"not null;column:class_session_scheduled_end_at"         json:"class_session_scheduled_end_at"`
	ClassSessionActualStartAt    *time.Time `gorm:"column:class_session_actual_start_at"                   json:"class_session_actual_start_at,omitempty"`
	ClassSessionActualEndAt      *time.Time `gorm:"column:class_session_actual_end_at"                     json:"class_session_actual_end_at,omitempty"`

	// scheduled|ongoing|completed|cancelled|rescheduled — monoton, kecuali
	// edge reschedule (scheduled→rescheduled + baris baru yang melanjutkan)
	ClassSessionStatus string `gorm:"type:varchar(20);not null;default:'scheduled';index;column:class_session_status" json:"class_session_status"`

	// Di-set saat create; false untuk sesi trial/makeup
	ClassSessionCountsTowardSubscription bool `gorm:"not null;default:true;column:class_session_counts_toward_subscription" json:"class_session_counts_toward_subscription"`

	// Link ke sesi asal kalau ini makeup/reschedule
	ClassSessionRescheduledFromID *uuid.UUID `gorm:"type:uuid;column:class_session_rescheduled_from_id" json:"class_session_rescheduled_from_id,omitempty"`

	ClassSessionCancelledBy  *string `gorm:"type:varchar(20);column:class_session_cancelled_by"  json:"class_session_cancelled_by,omitempty"` // teacher|student|system
	ClassSessionCancelReason *string `gorm:"column:class_session_cancel_reason"                  json:"class_session_cancel_reason,omitempty"`
	ClassSessionCompletedBy  *string `gorm:"type:varchar(20);column:class_session_completed_by"  json:"class_session_completed_by,omitempty"` // operator|system

	ClassSessionTitle *string `gorm:"type:varchar(160);column:class_session_title" json:"class_session_title,omitempty"`
	ClassSessionNote  *string `gorm:"column:class_session_note"                    json:"class_session_note,omitempty"`

	ClassSessionCreatedAt time.Time      `gorm:"column:class_session_created_at;autoCreateTime" json:"class_session_created_at"`
	ClassSessionUpdatedAt *time.Time     `gorm:"column:class_session_updated_at;autoUpdateTime" json:"class_session_updated_at,omitempty"`
	ClassSessionDeletedAt gorm.DeletedAt `gorm:"column:class_session_deleted_at;index"          json:"class_session_deleted_at,omitempty"`
}

func (ClassSessionModel) TableName() string { return "class_sessions" }

// DurationMinutes durasi terjadwal sesi dalam menit
func (m *ClassSessionModel) DurationMinutes() int {
	d := m.ClassSessionScheduledEndAt.Sub(m.ClassSessionScheduledStartAt)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
