// file: internals/constants/policy_test.go
package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillingCycleDuration(t *testing.T) {
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, from.AddDate(0, 1, 0), BillingCycleDuration(BillingCycleMonthly, from))
	assert.Equal(t, from.AddDate(0, 3, 0), BillingCycleDuration(BillingCycleQuarterly, from))
	assert.Equal(t, from.AddDate(1, 0, 0), BillingCycleDuration(BillingCycleYearly, from))

	// cycle tidak dikenal jatuh ke monthly
	assert.Equal(t, from.AddDate(0, 1, 0), BillingCycleDuration("mingguan", from))
}

func TestNormalizeLegacySubscriptionStatus(t *testing.T) {
	assert.Equal(t, SubscriptionStatusCancelled, NormalizeLegacySubscriptionStatus("canceled"))
	assert.Equal(t, SubscriptionStatusActive, NormalizeLegacySubscriptionStatus("active"))
}

// ENV menimpa default compile-time; tanpa ENV nilai default bertahan.
func TestLoadPolicyFromEnv(t *testing.T) {
	origLateGrace := DefaultLateGraceMinutes
	origFull := DefaultFullAttendanceThreshold
	origCounts := DefaultStudentCancellationCounts
	t.Cleanup(func() {
		DefaultLateGraceMinutes = origLateGrace
		DefaultFullAttendanceThreshold = origFull
		DefaultStudentCancellationCounts = origCounts
	})

	t.Setenv("ATTENDANCE_LATE_GRACE_MINUTES", "20")
	t.Setenv("ATTENDANCE_FULL_THRESHOLD_PERCENT", "90")
	t.Setenv("STUDENT_CANCELLATION_COUNTS_CREDIT", "true")
	LoadPolicyFromEnv()

	assert.Equal(t, 20, DefaultLateGraceMinutes)
	assert.Equal(t, 90.0, DefaultFullAttendanceThreshold)
	assert.True(t, DefaultStudentCancellationCounts)
}

func TestLoadPolicyFromEnv_InvalidValueKeepsDefault(t *testing.T) {
	orig := MaxRenewalFailures
	t.Cleanup(func() { MaxRenewalFailures = orig })

	t.Setenv("MAX_RENEWAL_FAILURES", "banyak")
	LoadPolicyFromEnv()

	assert.Equal(t, orig, MaxRenewalFailures)
}
