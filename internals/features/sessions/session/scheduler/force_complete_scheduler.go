// file: internals/features/sessions/session/scheduler/force_complete_scheduler.go
package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"tutorku_backend/internals/constants"
	eventModel "tutorku_backend/internals/features/attendance/events/model"
	sessModel "tutorku_backend/internals/features/sessions/session/model"
	"tutorku_backend/internals/features/sessions/session/service"
)

/* =========================================================
 * FORCE-COMPLETE SWEEP
 *
 * Sesi ongoing yang lewat jadwal + grace dipaksa selesai
 * oleh sistem. actual_end diambil dari event terakhir sesi
 * itu, fallback ke scheduled_end.
 * ========================================================= */

func StartForceCompleteScheduler(db *gorm.DB, sched *service.SchedulerService) {
	go func() {
		log.Println("[INFO] Force-complete scheduler aktif")
		for {
			sweepOverdueSessions(db, sched)
			time.Sleep(constants.SessionSweepInterval)
		}
	}()
}

func sweepOverdueSessions(db *gorm.DB, sched *service.SchedulerService) {
	deadline := time.Now().Add(-time.Duration(constants.DefaultPostSessionGraceMinutes) * time.Minute)

	var overdue []sessModel.ClassSessionModel
	if err := db.
		Where("class_session_status = ? AND class_session_scheduled_end_at < ?", constants.SessionStatusOngoing, deadline).
		Limit(100).
		Find(&overdue).Error; err != nil {
		log.Printf("[ERROR] Sweep sesi overdue gagal: %v", err)
		return
	}

	for _, sess := range overdue {
		end := lastEventTimestamp(db, sess)

		if _, _, err := sched.Complete(sess.ClassSessionID, &end, constants.CompletedBySystem); err != nil {
			log.Printf("[ERROR] Force-complete sesi %s gagal: %v", sess.ClassSessionID, err)
			continue
		}
		log.Printf("[INFO] Sesi %s dipaksa selesai oleh sistem (end=%s)", sess.ClassSessionID, end.Format(time.RFC3339))
	}
}

// Timestamp event terakhir sesi; scheduled_end kalau tidak ada event sama sekali.
func lastEventTimestamp(db *gorm.DB, sess sessModel.ClassSessionModel) time.Time {
	var last eventModel.AttendanceEventModel
	err := db.
		Where("attendance_event_session_id = ?", sess.ClassSessionID).
		Order("attendance_event_occurred_at DESC").
		First(&last).Error
	if err != nil {
		return sess.ClassSessionScheduledEndAt
	}
	if last.AttendanceEventOccurredAt.Before(sess.ClassSessionScheduledEndAt) {
		return sess.ClassSessionScheduledEndAt
	}
	return last.AttendanceEventOccurredAt
}
