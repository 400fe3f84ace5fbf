// file: internals/features/sessions/session/service/session_scheduler_service.go
package service

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorku_backend/internals/constants"
	recordsvc "tutorku_backend/internals/features/attendance/records/service"
	sessModel "tutorku_backend/internals/features/sessions/session/model"
	subModel "tutorku_backend/internals/features/subscriptions/subscription/model"
	ledgersvc "tutorku_backend/internals/features/subscriptions/subscription/service"
)

/* =========================================================
 * SESSION SCHEDULER
 *
 * Pemilik lifecycle sesi. Kredit ditahan (reserve) saat
 * scheduling, difinalkan (consume) saat complete — dua
 * langkah yang masing-masing idempotent supaya pipeline
 * completion aman diretry utuh.
 * ========================================================= */

type SchedulerService struct {
	DB         *gorm.DB
	Ledger     *ledgersvc.LedgerService
	Aggregator *recordsvc.AggregatorService
}

func NewSchedulerService(db *gorm.DB) *SchedulerService {
	return &SchedulerService{
		DB:         db,
		Ledger:     ledgersvc.NewLedgerService(db),
		Aggregator: recordsvc.NewAggregatorService(db),
	}
}

func lockSession(tx *gorm.DB, sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var sess sessModel.ClassSessionModel
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("class_session_id = ?", sessionID).
		First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Sesi tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &sess, nil
}

// Schedule membuat sesi baru untuk langganan aktif. Kalau sesi memotong
// kredit, satu kredit langsung direservasi di transaksi yang sama —
// mencegah over-booking terhadap sisa kredit.
func (s *SchedulerService) Schedule(mdl sessModel.ClassSessionModel) (*sessModel.ClassSessionModel, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub subModel.StudentSubscriptionModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_subscription_id = ?", mdl.ClassSessionSubscriptionID).
			First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Langganan tidak ditemukan")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if sub.StudentSubscriptionStatus != constants.SubscriptionStatusActive {
			return fiber.NewError(fiber.StatusForbidden, "Langganan tidak aktif — sesi tidak bisa dijadwalkan")
		}

		if mdl.ClassSessionCountsTowardSubscription {
			if err := s.Ledger.Reserve(tx, sub.StudentSubscriptionID); err != nil {
				return err
			}
		}

		if err := tx.Create(&mdl).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat sesi")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mdl, nil
}

// Start: scheduled→ongoing
func (s *SchedulerService) Start(sessionID uuid.UUID) (*sessModel.ClassSessionModel, error) {
	var out *sessModel.ClassSessionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if sess.ClassSessionStatus != constants.SessionStatusScheduled {
			return fiber.NewError(fiber.StatusConflict, "Sesi tidak dalam status scheduled")
		}
		now := time.Now()
		if err := tx.Model(&sessModel.ClassSessionModel{}).
			Where("class_session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"class_session_status":          constants.SessionStatusOngoing,
				"class_session_actual_start_at": now,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memulai sesi")
		}
		sess.ClassSessionStatus = constants.SessionStatusOngoing
		sess.ClassSessionActualStartAt = &now
		out = sess
		return nil
	})
	return out, err
}

// Complete: ongoing→completed + finalisasi attendance + consume kredit.
// Dua bagian terakhir idempotent sendiri-sendiri: kalau proses crash di
// antara keduanya, retry mendeteksi sesi sudah completed dan hanya
// menjalankan bagian yang belum (marker konsumsi yang memutuskan).
func (s *SchedulerService) Complete(sessionID uuid.UUID, actualEnd *time.Time, completedBy string) (*sessModel.ClassSessionModel, *ledgersvc.ConsumeResult, error) {
	var outSess *sessModel.ClassSessionModel
	var outConsume *ledgersvc.ConsumeResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}

		switch sess.ClassSessionStatus {
		case constants.SessionStatusOngoing:
			end := time.Now()
			if actualEnd != nil {
				end = *actualEnd
			}
			if err := tx.Model(&sessModel.ClassSessionModel{}).
				Where("class_session_id = ?", sessionID).
				Updates(map[string]interface{}{
					"class_session_status":        constants.SessionStatusCompleted,
					"class_session_actual_end_at": end,
					"class_session_completed_by":  completedBy,
				}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal menyelesaikan sesi")
			}
			sess.ClassSessionStatus = constants.SessionStatusCompleted
			sess.ClassSessionActualEndAt = &end
			sess.ClassSessionCompletedBy = &completedBy

		case constants.SessionStatusCompleted:
			// Retry path: jangan gagal, jalankan ulang kedua bagian (no-op aman)
			log.Printf("[INFO] Complete retry untuk sesi %s — melanjutkan bagian yang belum", sessionID)

		default:
			return fiber.NewError(fiber.StatusConflict, "Sesi hanya bisa diselesaikan dari status ongoing")
		}

		// Bagian 1: finalisasi verdict kehadiran (idempotent, hormati manual override)
		if err := s.Aggregator.FinalizeSession(tx, sess); err != nil {
			return err
		}

		// Bagian 2: potong kredit exactly-once (marker per session id)
		if sess.ClassSessionCountsTowardSubscription {
			res, err := s.Ledger.Consume(tx, sess.ClassSessionSubscriptionID, sess.ClassSessionID)
			if err != nil {
				return err
			}
			outConsume = res
		}

		outSess = sess
		return nil
	})
	return outSess, outConsume, err
}

// Cancel: dari scheduled|ongoing. Jenis aktor menentukan nasib kredit:
// system/teacher tidak pernah menghitung; student mengikuti kebijakan
// (boolean dari caller, default constants.DefaultStudentCancellationCounts).
func (s *SchedulerService) Cancel(sessionID uuid.UUID, cancelledBy string, reason *string, studentCountsOverride *bool) (*sessModel.ClassSessionModel, error) {
	var out *sessModel.ClassSessionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if sess.ClassSessionStatus != constants.SessionStatusScheduled && sess.ClassSessionStatus != constants.SessionStatusOngoing {
			return fiber.NewError(fiber.StatusConflict, "Sesi tidak bisa dibatalkan dari status "+sess.ClassSessionStatus)
		}

		countsAgainstCredit := CancellationCounts(cancelledBy, studentCountsOverride)

		if sess.ClassSessionCountsTowardSubscription {
			if countsAgainstCredit {
				// No-show student tetap memotong kredit (kebijakan caller)
				if _, err := s.Ledger.Consume(tx, sess.ClassSessionSubscriptionID, sess.ClassSessionID); err != nil {
					return err
				}
			} else {
				if err := s.Ledger.Release(tx, sess.ClassSessionSubscriptionID); err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&sessModel.ClassSessionModel{}).
			Where("class_session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"class_session_status":        constants.SessionStatusCancelled,
				"class_session_cancelled_by":  cancelledBy,
				"class_session_cancel_reason": reason,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membatalkan sesi")
		}
		sess.ClassSessionStatus = constants.SessionStatusCancelled
		sess.ClassSessionCancelledBy = &cancelledBy
		sess.ClassSessionCancelReason = reason
		out = sess
		return nil
	})
	return out, err
}

// Reschedule: sesi asal → rescheduled (terminal untuk baris itu), baris baru
// melanjutkan lifecycle dengan link balik. Reservasi kredit dibawa baris
// baru — tanpa release+reserve ulang, jadi tidak ada double-count.
func (s *SchedulerService) Reschedule(sessionID uuid.UUID, newStart, newEnd time.Time) (*sessModel.ClassSessionModel, error) {
	var out *sessModel.ClassSessionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sess, err := lockSession(tx, sessionID)
		if err != nil {
			return err
		}
		if sess.ClassSessionStatus != constants.SessionStatusScheduled {
			return fiber.NewError(fiber.StatusConflict, "Hanya sesi scheduled yang bisa di-reschedule")
		}

		if err := tx.Model(&sessModel.ClassSessionModel{}).
			Where("class_session_id = ?", sessionID).
			Update("class_session_status", constants.SessionStatusRescheduled).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal menandai sesi lama")
		}

		replacement := sessModel.ClassSessionModel{
			ClassSessionSubscriptionID:           sess.ClassSessionSubscriptionID,
			ClassSessionScheduledStartAt:         newStart,
			ClassSessionScheduledEndAt:           newEnd,
			ClassSessionStatus:                   constants.SessionStatusScheduled,
			ClassSessionCountsTowardSubscription: sess.ClassSessionCountsTowardSubscription,
			ClassSessionRescheduledFromID:        &sess.ClassSessionID,
			ClassSessionTitle:                    sess.ClassSessionTitle,
			ClassSessionNote:                     sess.ClassSessionNote,
		}
		if err := tx.Create(&replacement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat sesi pengganti")
		}
		out = &replacement
		return nil
	})
	return out, err
}

// CancellationCounts memutuskan apakah pembatalan tetap memotong kredit.
// System/teacher tidak pernah; student mengikuti override caller atau default.
func CancellationCounts(cancelledBy string, studentCountsOverride *bool) bool {
	if cancelledBy != constants.CancelledByStudent {
		return false
	}
	if studentCountsOverride != nil {
		return *studentCountsOverride
	}
	return constants.DefaultStudentCancellationCounts
}
