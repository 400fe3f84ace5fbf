// file: internals/features/subscriptions/billing/service/billing_service.go
package service

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tutorku_backend/internals/constants"
	"tutorku_backend/internals/features/subscriptions/billing/model"
	subModel "tutorku_backend/internals/features/subscriptions/subscription/model"
	ledgersvc "tutorku_backend/internals/features/subscriptions/subscription/service"
)

/* =========================================================
 * BILLING ADVANCER
 *
 * Menjembatani sinyal pembayaran gateway ke state langganan:
 * pending→active saat bayar pertama, tanggal siklus maju saat
 * renewal, 3x gagal beruntun → cancel otomatis.
 * ========================================================= */

type BillingService struct {
	DB     *gorm.DB
	Ledger *ledgersvc.LedgerService
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db, Ledger: ledgersvc.NewLedgerService(db)}
}

func (s *BillingService) lockPaymentByOrderID(tx *gorm.DB, orderID string) (*model.SubscriptionPaymentModel, error) {
	var pay model.SubscriptionPaymentModel
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("subscription_payment_order_id = ?", orderID).
		First(&pay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Pembayaran tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &pay, nil
}

// CreatePendingPayment membuat tagihan baru untuk langganan (checkout awal
// maupun renewal). Token Snap diisi belakangan oleh layer gateway.
func (s *BillingService) CreatePendingPayment(subscriptionID uuid.UUID, orderID string, amount int64) (*model.SubscriptionPaymentModel, error) {
	var sub subModel.StudentSubscriptionModel
	if err := s.DB.Where("student_subscription_id = ?", subscriptionID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Langganan tidak ditemukan")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if sub.StudentSubscriptionStatus == constants.SubscriptionStatusCancelled {
		return nil, fiber.NewError(fiber.StatusForbidden, "Langganan sudah dibatalkan")
	}

	pay := model.SubscriptionPaymentModel{
		SubscriptionPaymentSubscriptionID: subscriptionID,
		SubscriptionPaymentOrderID:        orderID,
		SubscriptionPaymentAmount:         amount,
		SubscriptionPaymentStatus:         constants.PaymentStatusPending,
	}
	if err := s.DB.Create(&pay).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat tagihan")
	}
	return &pay, nil
}

// OnPaymentConfirmed memproses sinyal sukses dari gateway. Idempotent:
// notifikasi ulang untuk order yang sudah paid tidak mengubah apa pun.
func (s *BillingService) OnPaymentConfirmed(orderID string, paidAt time.Time, rawNotif []byte) (*model.SubscriptionPaymentModel, error) {
	var out *model.SubscriptionPaymentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockPaymentByOrderID(tx, orderID)
		if err != nil {
			return err
		}
		if pay.SubscriptionPaymentStatus == constants.PaymentStatusPaid {
			log.Printf("[INFO] Notifikasi ulang untuk order %s yang sudah paid — diabaikan", orderID)
			out = pay
			return nil
		}

		updates := map[string]interface{}{
			"subscription_payment_status":  constants.PaymentStatusPaid,
			"subscription_payment_paid_at": paidAt,
		}
		if len(rawNotif) > 0 {
			updates["subscription_payment_raw_notif"] = datatypes.JSON(rawNotif)
		}
		if err := tx.Model(&model.SubscriptionPaymentModel{}).
			Where("subscription_payment_id = ?", pay.SubscriptionPaymentID).
			Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui pembayaran")
		}

		var sub subModel.StudentSubscriptionModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_subscription_id = ?", pay.SubscriptionPaymentSubscriptionID).
			First(&sub).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		switch sub.StudentSubscriptionStatus {
		case constants.SubscriptionStatusPending:
			// Pembayaran pertama: aktivasi + isi tanggal siklus
			if _, err := s.Ledger.ActivateTx(tx, sub.StudentSubscriptionID, paidAt); err != nil {
				return err
			}

		case constants.SubscriptionStatusActive:
			// Renewal: majukan siklus dari next_billing_date lama (bukan dari
			// paidAt) supaya keterlambatan bayar tidak menggeser jangkar siklus
			anchor := paidAt
			if sub.StudentSubscriptionNextBillingDate != nil {
				anchor = *sub.StudentSubscriptionNextBillingDate
			}
			nextBilling := constants.BillingCycleDuration(sub.StudentSubscriptionBillingCycle, anchor)
			newEndsAt := nextBilling
			if err := tx.Model(&subModel.StudentSubscriptionModel{}).
				Where("student_subscription_id = ?", sub.StudentSubscriptionID).
				Updates(map[string]interface{}{
					"student_subscription_payment_status":       constants.PaymentStatusPaid,
					"student_subscription_next_billing_date":    nextBilling,
					"student_subscription_ends_at":              newEndsAt,
					"student_subscription_last_payment_at":      paidAt,
					"student_subscription_renewal_failed_count": 0,
				}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Gagal memajukan siklus billing")
			}

		default:
			// paused/cancelled: catat pembayaran tapi jangan ubah lifecycle
			log.Printf("[WARN] Pembayaran %s diterima untuk langganan %s berstatus %s",
				orderID, sub.StudentSubscriptionID, sub.StudentSubscriptionStatus)
		}

		pay.SubscriptionPaymentStatus = constants.PaymentStatusPaid
		pay.SubscriptionPaymentPaidAt = &paidAt
		out = pay
		return nil
	})
	return out, err
}

// OnPaymentFailed memproses sinyal gagal/expired/cancel dari gateway.
// Kegagalan renewal beruntun ke-MaxRenewalFailures membatalkan langganan.
func (s *BillingService) OnPaymentFailed(orderID string, rawNotif []byte) (*model.SubscriptionPaymentModel, error) {
	var out *model.SubscriptionPaymentModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		pay, err := s.lockPaymentByOrderID(tx, orderID)
		if err != nil {
			return err
		}
		if pay.SubscriptionPaymentStatus == constants.PaymentStatusFailed {
			out = pay
			return nil
		}
		if pay.SubscriptionPaymentStatus == constants.PaymentStatusPaid {
			// Paid lalu failed tidak valid — jangan mundurkan state
			log.Printf("[WARN] Sinyal gagal untuk order %s yang sudah paid — diabaikan", orderID)
			out = pay
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"subscription_payment_status":    constants.PaymentStatusFailed,
			"subscription_payment_failed_at": now,
		}
		if len(rawNotif) > 0 {
			updates["subscription_payment_raw_notif"] = datatypes.JSON(rawNotif)
		}
		if err := tx.Model(&model.SubscriptionPaymentModel{}).
			Where("subscription_payment_id = ?", pay.SubscriptionPaymentID).
			Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gagal memperbarui pembayaran")
		}

		if err := s.registerRenewalFailure(tx, pay.SubscriptionPaymentSubscriptionID); err != nil {
			return err
		}

		pay.SubscriptionPaymentStatus = constants.PaymentStatusFailed
		pay.SubscriptionPaymentFailedAt = &now
		out = pay
		return nil
	})
	return out, err
}

func (s *BillingService) registerRenewalFailure(tx *gorm.DB, subscriptionID uuid.UUID) error {
	var sub subModel.StudentSubscriptionModel
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_subscription_id = ?", subscriptionID).
		First(&sub).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if sub.StudentSubscriptionStatus == constants.SubscriptionStatusCancelled {
		return nil
	}

	failures := sub.StudentSubscriptionRenewalFailedCount + 1
	updates := map[string]interface{}{
		"student_subscription_payment_status":       constants.PaymentStatusFailed,
		"student_subscription_renewal_failed_count": failures,
	}
	if err := tx.Model(&subModel.StudentSubscriptionModel{}).
		Where("student_subscription_id = ?", subscriptionID).
		Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal mencatat kegagalan renewal")
	}

	now := time.Now()
	pastEnds := sub.StudentSubscriptionEndsAt != nil && sub.StudentSubscriptionEndsAt.Before(now)

	if failures >= constants.MaxRenewalFailures || pastEnds {
		reason := "Renewal gagal " + strconv.Itoa(failures) + " kali beruntun"
		if pastEnds {
			reason = "Renewal gagal dan periode langganan sudah berakhir"
		}
		log.Printf("[WARN] Langganan %s dibatalkan otomatis: %s", subscriptionID, reason)
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
	}
	return nil
}

// SweepOverdue menandai langganan aktif yang lewat tanggal billing sebagai
// overdue (payment_status), lalu tagihan pending-nya ikut overdue dan
// dihitung sebagai kegagalan renewal.
func (s *BillingService) SweepOverdue() {
	now := time.Now()

	res := s.DB.Model(&subModel.StudentSubscriptionModel{}).
		Where("student_subscription_status = ? AND student_subscription_next_billing_date < ? AND student_subscription_payment_status NOT IN ?",
			constants.SubscriptionStatusActive, now,
			[]string{constants.PaymentStatusOverdue, constants.PaymentStatusFailed}).
		Update("student_subscription_payment_status", constants.PaymentStatusOverdue)
	if res.Error != nil {
		log.Printf("[ERROR] Gagal menandai langganan overdue: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[INFO] %d langganan ditandai overdue", res.RowsAffected)
	}

	var overdue []model.SubscriptionPaymentModel
	err := s.DB.
		Where("subscription_payment_status = ?", constants.PaymentStatusPending).
		Where("subscription_payment_subscription_id IN (?)",
			s.DB.Model(&subModel.StudentSubscriptionModel{}).
				Select("student_subscription_id").
				Where("student_subscription_status = ? AND student_subscription_next_billing_date < ?",
					constants.SubscriptionStatusActive, now)).
		Limit(200).
		Find(&overdue).Error
	if err != nil {
		log.Printf("[ERROR] Sweep tagihan overdue gagal: %v", err)
		return
	}

	for _, pay := range overdue {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&model.SubscriptionPaymentModel{}).
				Where("subscription_payment_id = ? AND subscription_payment_status = ?",
					pay.SubscriptionPaymentID, constants.PaymentStatusPending).
				Updates(map[string]interface{}{
					"subscription_payment_status":    constants.PaymentStatusOverdue,
					"subscription_payment_failed_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil // dibayar di sela sweep
			}
			return s.registerRenewalFailure(tx, pay.SubscriptionPaymentSubscriptionID)
		})
		if err != nil {
			log.Printf("[ERROR] Gagal menandai tagihan %s overdue: %v", pay.SubscriptionPaymentOrderID, err)
		}
	}
}
