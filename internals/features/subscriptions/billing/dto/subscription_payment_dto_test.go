// file: internals/features/subscriptions/billing/dto/subscription_payment_dto_test.go
package dto

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderID_Format(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^PAY-20260310-[A-Z2-9]{6}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := GenerateOrderID(now)
		assert.Regexp(t, pattern, id)
		seen[id] = true
	}
	// acak — kemungkinan besar tidak semua sama
	assert.Greater(t, len(seen), 1)
}
