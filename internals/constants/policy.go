package constants

import (
	"time"

	"tutorku_backend/internals/configs"
)

/* =========================================================
 * Kebijakan engine. Nilai di bawah adalah default compile-time;
 * LoadPolicyFromEnv (dipanggil sekali dari main setelah LoadEnv)
 * menimpa dari ENV kalau di-set.
 * ========================================================= */

var (
	// Ambang kehadiran penuh (persen)
	DefaultFullAttendanceThreshold = 80.0

	// Ambang minimum supaya "late" masih dihitung hadir (persen)
	DefaultMinimumAttendanceThreshold = 30.0

	// Toleransi telat join sebelum dicap "late" (menit)
	DefaultLateGraceMinutes = 15

	// Rejoin dalam rentang ini dianggap reconnect, cycle digabung (detik)
	DefaultReconnectThresholdSeconds = 120

	// Sesi ongoing melewati scheduled_end + grace ini akan di-force-complete
	DefaultPostSessionGraceMinutes = 30

	// Default kebijakan: sesi yang dibatalkan student TIDAK memotong kredit.
	// Caller boleh override per pembatalan (lihat CancelSessionRequest).
	DefaultStudentCancellationCounts = false

	// Gagal renewal beruntun sebanyak ini → langganan dibatalkan
	MaxRenewalFailures = 3
)

// LoadPolicyFromEnv membaca override kebijakan dari ENV (env-first,
// default compile-time sebagai fallback).
func LoadPolicyFromEnv() {
	DefaultFullAttendanceThreshold = float64(configs.GetEnvInt("ATTENDANCE_FULL_THRESHOLD_PERCENT", int(DefaultFullAttendanceThreshold)))
	DefaultMinimumAttendanceThreshold = float64(configs.GetEnvInt("ATTENDANCE_MINIMUM_THRESHOLD_PERCENT", int(DefaultMinimumAttendanceThreshold)))
	DefaultLateGraceMinutes = configs.GetEnvInt("ATTENDANCE_LATE_GRACE_MINUTES", DefaultLateGraceMinutes)
	DefaultReconnectThresholdSeconds = configs.GetEnvInt("ATTENDANCE_RECONNECT_THRESHOLD_SECONDS", DefaultReconnectThresholdSeconds)
	DefaultPostSessionGraceMinutes = configs.GetEnvInt("SESSION_POST_GRACE_MINUTES", DefaultPostSessionGraceMinutes)
	DefaultStudentCancellationCounts = configs.GetEnvBool("STUDENT_CANCELLATION_COUNTS_CREDIT", DefaultStudentCancellationCounts)
	MaxRenewalFailures = configs.GetEnvInt("MAX_RENEWAL_FAILURES", MaxRenewalFailures)
}

const (
	SessionSweepInterval = 1 * time.Minute
	BillingSweepInterval = 1 * time.Hour
)

// BillingCycleDuration mengembalikan durasi satu unit siklus tagihan.
func BillingCycleDuration(cycle string, from time.Time) time.Time {
	switch cycle {
	case BillingCycleQuarterly:
		return from.AddDate(0, 3, 0)
	case BillingCycleYearly:
		return from.AddDate(1, 0, 0)
	default: // monthly
		return from.AddDate(0, 1, 0)
	}
}
