package constants

/* =========================================================
 * Enum tertutup per state machine.
 * Nilai legacy dari skema lama TIDAK pernah masuk ke sini:
 * mapping dilakukan di boundary (lihat NormalizeLegacy*).
 * ========================================================= */

// Status langganan
const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
)

// Status pembayaran langganan
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
	PaymentStatusOverdue = "overdue"
)

// Siklus tagihan
const (
	BillingCycleMonthly   = "monthly"
	BillingCycleQuarterly = "quarterly"
	BillingCycleYearly    = "yearly"
)

// Status sesi
const (
	SessionStatusScheduled   = "scheduled"
	SessionStatusOngoing     = "ongoing"
	SessionStatusCompleted   = "completed"
	SessionStatusCancelled   = "cancelled"
	SessionStatusRescheduled = "rescheduled"
)

// Aktor pembatalan sesi
const (
	CancelledByTeacher = "teacher"
	CancelledByStudent = "student"
	CancelledBySystem  = "system"
)

// Penyelesai sesi (audit force-complete)
const (
	CompletedByOperator = "operator"
	CompletedBySystem   = "system"
)

// Status kehadiran
const (
	AttendanceStatusAbsent   = "absent"
	AttendanceStatusAttended = "attended"
	AttendanceStatusLate     = "late"
	AttendanceStatusLeft     = "left"
)

// Jenis event kehadiran dari meeting provider
const (
	EventKindJoined    = "joined"
	EventKindLeft      = "left"
	EventKindReconnect = "reconnect"
	EventKindAborted   = "aborted"
)

// Jenis unit belajar (tagged reference, tepat satu per langganan)
const (
	UnitKindIndividualCircle = "individual_circle"
	UnitKindGroupCircle      = "group_circle"
	UnitKindCourse           = "course"
)

// NormalizeLegacySubscriptionStatus memetakan nilai status dari skema lama
// ke enum tertutup di atas. Dipakai saat baca, tidak pernah saat tulis.
func NormalizeLegacySubscriptionStatus(raw string) string {
	switch raw {
	case "pending", "awaiting_payment", "unpaid":
		return SubscriptionStatusPending
	case "active", "activated":
		return SubscriptionStatusActive
	case "paused", "on_hold", "suspended":
		return SubscriptionStatusPaused
	case "cancelled", "canceled", "terminated", "expired":
		return SubscriptionStatusCancelled
	default:
		return raw
	}
}

func IsValidEventKind(kind string) bool {
	switch kind {
	case EventKindJoined, EventKindLeft, EventKindReconnect, EventKindAborted:
		return true
	}
	return false
}

func IsValidUnitKind(kind string) bool {
	switch kind {
	case UnitKindIndividualCircle, UnitKindGroupCircle, UnitKindCourse:
		return true
	}
	return false
}
