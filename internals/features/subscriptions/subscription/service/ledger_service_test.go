// file: internals/features/subscriptions/subscription/service/ledger_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftDatesForPause_ShiftsBothDates(t *testing.T) {
	nextBilling := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	endsAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	pausedAt := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	resumedAt := pausedAt.AddDate(0, 0, 7) // pause seminggu

	newNext, newEnds := ShiftDatesForPause(&nextBilling, &endsAt, pausedAt, resumedAt)

	require.NotNil(t, newNext)
	require.NotNil(t, newEnds)
	assert.True(t, newNext.Equal(nextBilling.AddDate(0, 0, 7)))
	assert.True(t, newEnds.Equal(endsAt.AddDate(0, 0, 7)))
}

func TestShiftDatesForPause_NilDatesStayNil(t *testing.T) {
	pausedAt := time.Now()
	newNext, newEnds := ShiftDatesForPause(nil, nil, pausedAt, pausedAt.Add(time.Hour))

	assert.Nil(t, newNext)
	assert.Nil(t, newEnds)
}

func TestShiftDatesForPause_ResumeBeforePauseNoShift(t *testing.T) {
	nextBilling := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	pausedAt := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	newNext, _ := ShiftDatesForPause(&nextBilling, nil, pausedAt, pausedAt.Add(-time.Hour))

	require.NotNil(t, newNext)
	assert.True(t, newNext.Equal(nextBilling))
}

// Marker konsumsi sudah ada → no-op, berapa kali pun completion di-retry
// decrement cuma terjadi sekali.
func TestConsumeGuard(t *testing.T) {
	assert.Equal(t, consumeNoop, consumeGuard(true, 5))
	assert.Equal(t, consumeNoop, consumeGuard(true, 0)) // no-op menang dari kredit habis

	assert.Equal(t, consumeInsufficient, consumeGuard(false, 0))
	assert.Equal(t, consumeInsufficient, consumeGuard(false, -1))

	assert.Equal(t, consumeDecrement, consumeGuard(false, 1))
	assert.Equal(t, consumeDecrement, consumeGuard(false, 8))
}
