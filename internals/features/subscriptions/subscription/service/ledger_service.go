// file: internals/features/subscriptions/subscription/service/ledger_service.go
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
	subModel "tutorku_backend/internals/features/subscriptions/subscription/model"
)

/* =========================================================
 * LEDGER SERVICE
 *
 * Pemilik status langganan + counter kredit. Semua mutasi
 * adalah read-modify-write atomik: lock baris FOR UPDATE,
 * guard di WHERE, idempotency marker di transaksi yang sama.
 * ========================================================= */

type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

type ConsumeResult struct {
	UsedSessions      int  `json:"used_sessions"`
	RemainingSessions int  `json:"remaining_sessions"`
	AlreadyConsumed   bool `json:"already_consumed"`
}

// lockSubscription ambil baris langganan FOR UPDATE di dalam tx.
func lockSubscription(tx *gorm.DB, subscriptionID uuid.UUID) (*subModel.StudentSubscriptionModel, error) {
	var sub subModel.StudentSubscriptionModel
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_subscription_id = ?", subscriptionID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Langganan tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &sub, nil
}

// Activate mengaktifkan langganan pending setelah konfirmasi pembayaran:
// status→active, payment→paid, tanggal-tanggal terisi (sebelumnya NULL semua).
func (s *LedgerService) Activate(subscriptionID uuid.UUID, paidAt time.Time) (*subModel.StudentSubscriptionModel, error) {
	var out *subModel.StudentSubscriptionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := s.ActivateTx(tx, subscriptionID, paidAt)
		if err != nil {
			return err
		}
		out = sub
		return nil
	})
	return out, err
}

// ActivateTx versi dalam-transaksi — dipakai billing advancer yang sudah
// memegang tx sendiri (lock payment + lock subscription satu transaksi).
func (s *LedgerService) ActivateTx(tx *gorm.DB, subscriptionID uuid.UUID, paidAt time.Time) (*subModel.StudentSubscriptionModel, error) {
	sub, err := lockSubscription(tx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.StudentSubscriptionStatus != constants.SubscriptionStatusPending {
		return nil, fiber.NewError(fiber.StatusConflict, "Langganan sudah aktif / bukan pending")
	}

	startsAt := paidAt
	endsAt := constants.BillingCycleDuration(sub.StudentSubscriptionBillingCycle, startsAt)
	nextBilling := endsAt

	updates := map[string]interface{}{
		"student_subscription_status":            constants.SubscriptionStatusActive,
		"student_subscription_payment_status":    constants.PaymentStatusPaid,
		"student_subscription_starts_at":         startsAt,
		"student_subscription_ends_at":           endsAt,
		"student_subscription_next_billing_date": nextBilling,
		"student_subscription_last_payment_at":   paidAt,
	}
	if err := tx.Model(&subModel.StudentSubscriptionModel{}).
		Where("student_subscription_id = ?", subscriptionID).
		Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal mengaktifkan langganan")
	}

	sub.StudentSubscriptionStatus = constants.SubscriptionStatusActive
	sub.StudentSubscriptionPaymentStatus = constants.PaymentStatusPaid
	sub.StudentSubscriptionStartsAt = &startsAt
	sub.StudentSubscriptionEndsAt = &endsAt
	sub.StudentSubscriptionNextBillingDate = &nextBilling
	sub.StudentSubscriptionLastPaymentAt = &paidAt
	return sub, nil
}

type consumeAction int

const (
	consumeNoop consumeAction = iota
	consumeInsufficient
	consumeDecrement
)

// consumeGuard memutuskan aksi Consume dari state yang sudah terkunci:
// marker ada → no-op idempotent (retry berapa kali pun cuma decrement sekali),
// kredit habis → tolak, sisanya decrement.
func consumeGuard(hasMarker bool, remaining int) consumeAction {
	if hasMarker {
		return consumeNoop
	}
	if remaining < 1 {
		return consumeInsufficient
	}
	return consumeDecrement
}

// Consume memotong satu kredit untuk satu sesi — idempotent per session id,
// bukan per pemanggilan. Retry webhook completion yang sama tidak akan
// memotong dua kali: marker subscription_consumptions yang jadi kuncinya.
// Dipanggil di dalam tx milik scheduler (Session.Complete).
func (s *LedgerService) Consume(tx *gorm.DB, subscriptionID, sessionID uuid.UUID) (*ConsumeResult, error) {
	sub, err := lockSubscription(tx, subscriptionID)
	if err != nil {
		return nil, err
	}

	var existing subModel.SubscriptionConsumptionModel
	err = tx.
		Where("subscription_consumption_subscription_id = ? AND subscription_consumption_session_id = ?", subscriptionID, sessionID).
		First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	switch consumeGuard(err == nil, sub.StudentSubscriptionRemainingSessions) {
	case consumeNoop:
		// Marker sudah ada → no-op sukses, balikan snapshot lama
		log.Printf("[INFO] Consume idempotent no-op: sub=%s session=%s", subscriptionID, sessionID)
		return &ConsumeResult{
			UsedSessions:      existing.SubscriptionConsumptionUsedAfter,
			RemainingSessions: existing.SubscriptionConsumptionRemainingAfter,
			AlreadyConsumed:   true,
		}, nil
	case consumeInsufficient:
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Kredit sesi tidak mencukupi")
	}

	// Guard remaining >= 1 diulang di WHERE: baris sudah terkunci, tapi
	// decrement tetap tidak boleh lolos tanpa guard
	res := tx.Model(&subModel.StudentSubscriptionModel{}).
		Where("student_subscription_id = ? AND student_subscription_remaining_sessions >= 1", subscriptionID).
		Updates(map[string]interface{}{
			"student_subscription_used_sessions":      gorm.Expr("student_subscription_used_sessions + 1"),
			"student_subscription_remaining_sessions": gorm.Expr("student_subscription_remaining_sessions - 1"),
			"student_subscription_reserved_sessions":  gorm.Expr("GREATEST(student_subscription_reserved_sessions - 1, 0)"),
		})
	if res.Error != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal memotong kredit sesi")
	}
	if res.RowsAffected == 0 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Kredit sesi tidak mencukupi")
	}

	marker := subModel.SubscriptionConsumptionModel{
		SubscriptionConsumptionSubscriptionID: subscriptionID,
		SubscriptionConsumptionSessionID:      sessionID,
		SubscriptionConsumptionUsedAfter:      sub.StudentSubscriptionUsedSessions + 1,
		SubscriptionConsumptionRemainingAfter: sub.StudentSubscriptionRemainingSessions - 1,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal menyimpan marker konsumsi")
	}

	return &ConsumeResult{
		UsedSessions:      marker.SubscriptionConsumptionUsedAfter,
		RemainingSessions: marker.SubscriptionConsumptionRemainingAfter,
		AlreadyConsumed:   false,
	}, nil
}

// Reserve menahan satu kredit saat scheduling (optimistic hold, mencegah
// over-booking). Finalisasi decrement tetap di Consume saat sesi selesai.
func (s *LedgerService) Reserve(tx *gorm.DB, subscriptionID uuid.UUID) error {
	res := tx.Model(&subModel.StudentSubscriptionModel{}).
		Where(
			"student_subscription_id = ? AND student_subscription_status = ? AND student_subscription_remaining_sessions - student_subscription_reserved_sessions >= 1",
			subscriptionID, constants.SubscriptionStatusActive,
		).
		Update("student_subscription_reserved_sessions", gorm.Expr("student_subscription_reserved_sessions + 1"))
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal reservasi kredit sesi")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Tidak ada kredit sesi tersisa untuk dijadwalkan")
	}
	return nil
}

// Release melepas reservasi (sesi batal / tidak jadi dihitung). Clamp di 0
// supaya retry pelepasan tidak bikin counter negatif.
func (s *LedgerService) Release(tx *gorm.DB, subscriptionID uuid.UUID) error {
	if err := tx.Model(&subModel.StudentSubscriptionModel{}).
		Where("student_subscription_id = ?", subscriptionID).
		Update("student_subscription_reserved_sessions", gorm.Expr("GREATEST(student_subscription_reserved_sessions - 1, 0)")).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal melepas reservasi kredit")
	}
	return nil
}

// Pause: active→paused. Kredit tidak disentuh; pergeseran billing date
// dihitung saat Resume dari durasi pause aktual.
func (s *LedgerService) Pause(subscriptionID uuid.UUID, reason *string) (*subModel.StudentSubscriptionModel, error) {
	var out *subModel.StudentSubscriptionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.StudentSubscriptionStatus != constants.SubscriptionStatusActive {
			return fiber.NewError(fiber.StatusConflict, "Hanya langganan aktif yang bisa di-pause")
		}
		now := time.Now()
		if err := tx.Model(&subModel.StudentSubscriptionModel{}).
			Where("student_subscription_id = ?", subscriptionID).
			Updates(map[string]interface{}{
				"student_subscription_status":       constants.SubscriptionStatusPaused,
				"student_subscription_paused_at":    now,
				"student_subscription_pause_reason": reason,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal pause langganan")
		}
		sub.StudentSubscriptionStatus = constants.SubscriptionStatusPaused
		sub.StudentSubscriptionPausedAt = &now
		sub.StudentSubscriptionPauseReason = reason
		out = sub
		return nil
	})
	return out, err
}

// Resume: paused→active. next_billing_date & ends_at maju sebesar durasi
// pause — pelanggan tidak pernah "kehilangan" waktu yang sudah dibayar.
func (s *LedgerService) Resume(subscriptionID uuid.UUID) (*subModel.StudentSubscriptionModel, error) {
	var out *subModel.StudentSubscriptionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.StudentSubscriptionStatus != constants.SubscriptionStatusPaused || sub.StudentSubscriptionPausedAt == nil {
			return fiber.NewError(fiber.StatusConflict, "Langganan tidak sedang pause")
		}

		now := time.Now()
		newNext, newEnds := ShiftDatesForPause(
			sub.StudentSubscriptionNextBillingDate,
			sub.StudentSubscriptionEndsAt,
			*sub.StudentSubscriptionPausedAt,
			now,
		)

		if err := tx.Model(&subModel.StudentSubscriptionModel{}).
			Where("student_subscription_id = ?", subscriptionID).
			Updates(map[string]interface{}{
				"student_subscription_status":            constants.SubscriptionStatusActive,
				"student_subscription_paused_at":         nil,
				"student_subscription_pause_reason":      nil,
				"student_subscription_next_billing_date": newNext,
				"student_subscription_ends_at":           newEnds,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal resume langganan")
		}
		sub.StudentSubscriptionStatus = constants.SubscriptionStatusActive
		sub.StudentSubscriptionPausedAt = nil
		sub.StudentSubscriptionPauseReason = nil
		sub.StudentSubscriptionNextBillingDate = newNext
		sub.StudentSubscriptionEndsAt = newEnds
		out = sub
		return nil
	})
	return out, err
}

// Cancel: transisi terminal dari state non-terminal mana pun. Sisa kredit
// hangus — refund urusan subsistem payment eksternal, bukan engine ini.
func (s *LedgerService) Cancel(subscriptionID uuid.UUID, reason *string) (*subModel.StudentSubscriptionModel, error) {
	var out *subModel.StudentSubscriptionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sub, err := lockSubscription(tx, subscriptionID)
		if err != nil {
			return err
		}
		if sub.StudentSubscriptionStatus == constants.SubscriptionStatusCancelled {
			return fiber.NewError(fiber.StatusConflict, "Langganan sudah dibatalkan")
		}
		now := time.Now()
		if err := tx.Model(&subModel.StudentSubscriptionModel{}).
			Where("student_subscription_id = ?", subscriptionID).
			Updates(map[string]interface{}{
				"student_subscription_status":              constants.SubscriptionStatusCancelled,
				"student_subscription_cancelled_at":        now,
				"student_subscription_cancellation_reason": reason,
				"student_subscription_auto_renew":          false,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal membatalkan langganan")
		}
		sub.StudentSubscriptionStatus = constants.SubscriptionStatusCancelled
		sub.StudentSubscriptionCancelledAt = &now
		sub.StudentSubscriptionCancellationReason = reason
		sub.StudentSubscriptionAutoRenew = false
		out = sub
		return nil
	})
	return out, err
}

// ShiftDatesForPause geser next_billing_date & ends_at maju sebesar durasi
// pause. Dipisah jadi fungsi murni supaya gampang diuji.
func ShiftDatesForPause(nextBilling, endsAt *time.Time, pausedAt, resumedAt time.Time) (*time.Time, *time.Time) {
	pausedFor := resumedAt.Sub(pausedAt)
	if pausedFor < 0 {
		pausedFor = 0
	}
	var newNext, newEnds *time.Time
	if nextBilling != nil {
		v := nextBilling.Add(pausedFor)
		newNext = &v
	}
	if endsAt != nil {
		v := endsAt.Add(pausedFor)
		newEnds = &v
	}
	return newNext, newEnds
}
