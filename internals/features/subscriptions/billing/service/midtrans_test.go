// file: internals/features/subscriptions/billing/service/midtrans_test.go
package service

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTransactionStatus(t *testing.T) {
	assert.Equal(t, SignalConfirmed, MapTransactionStatus("settlement", ""))
	assert.Equal(t, SignalConfirmed, MapTransactionStatus("capture", "accept"))
	assert.Equal(t, SignalNone, MapTransactionStatus("capture", "challenge"))

	assert.Equal(t, SignalFailed, MapTransactionStatus("deny", ""))
	assert.Equal(t, SignalFailed, MapTransactionStatus("cancel", ""))
	assert.Equal(t, SignalFailed, MapTransactionStatus("expire", ""))
	assert.Equal(t, SignalFailed, MapTransactionStatus("failure", ""))

	assert.Equal(t, SignalNone, MapTransactionStatus("pending", ""))
}

func TestVerifyNotificationSignature(t *testing.T) {
	InitMidtrans("test-server-key", false)

	orderID := "PAY-20260310-ABC123"
	statusCode := "200"
	grossAmount := "150000.00"

	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + "test-server-key"))
	valid := hex.EncodeToString(h[:])

	assert.True(t, VerifyNotificationSignature(orderID, statusCode, grossAmount, valid))
	assert.False(t, VerifyNotificationSignature(orderID, statusCode, grossAmount, "salah"))
	assert.False(t, VerifyNotificationSignature("PAY-LAIN", statusCode, grossAmount, valid))
}

// settlement_time Midtrans selalu GMT+7, bukan zona server.
func TestParseSettlementTime_GMTPlus7(t *testing.T) {
	got, err := ParseSettlementTime("2026-03-10 14:00:00")
	require.NoError(t, err)

	// 14:00 WIB == 07:00 UTC
	assert.True(t, got.Equal(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)))
	_, offset := got.Zone()
	assert.Equal(t, 7*60*60, offset)
}

func TestParseSettlementTime_Invalid(t *testing.T) {
	_, err := ParseSettlementTime("10-03-2026")
	assert.Error(t, err)
}
