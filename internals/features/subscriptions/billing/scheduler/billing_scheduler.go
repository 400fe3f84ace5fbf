// file: internals/features/subscriptions/billing/scheduler/billing_scheduler.go
package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"tutorku_backend/internals/constants"
	"tutorku_backend/internals/features/subscriptions/billing/service"
)

// Sweep periodik: tagihan pending yang jatuh temponya lewat → overdue
// (dihitung sebagai kegagalan renewal).
func StartBillingScheduler(db *gorm.DB) {
	billing := service.NewBillingService(db)
	go func() {
		log.Println("[INFO] Billing scheduler aktif")
		for {
			billing.SweepOverdue()
			time.Sleep(constants.BillingSweepInterval)
		}
	}()
}
