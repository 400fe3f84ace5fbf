// file: internals/features/subscriptions/billing/service/midtrans.go
package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"tutorku_backend/internals/features/subscriptions/billing/model"
)

// Timestamp Midtrans (settlement_time dkk) dikirim di GMT+7 tanpa offset
var midtransTimeLocation = time.FixedZone("WIB", 7*60*60)

// ParseSettlementTime parse timestamp notifikasi Midtrans di zona GMT+7.
func ParseSettlementTime(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04:05", s, midtransTimeLocation)
}

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

var midtransServerKey string

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	midtransServerKey = serverKey
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

/* =========================================================
   Generate Snap Token
========================================================= */

// GenerateSnapToken membuat transaksi Snap untuk satu tagihan langganan.
// Mengembalikan token + redirect URL.
func GenerateSnapToken(p model.SubscriptionPaymentModel, custName, custEmail string) (string, string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  p.SubscriptionPaymentOrderID,
			GrossAmt: p.SubscriptionPaymentAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: custName,
			Email: custEmail,
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Verifikasi Notifikasi
========================================================= */

// VerifyNotificationSignature mengecek signature_key notifikasi HTTP Midtrans:
// sha512(order_id + status_code + gross_amount + server_key).
func VerifyNotificationSignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + midtransServerKey))
	expected := hex.EncodeToString(h[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}

// MapTransactionStatus memetakan status transaksi Midtrans ke sinyal billing.
// capture/settlement → confirmed; deny/cancel/expire/failure → failed;
// selain itu (pending dsb) → tidak ada aksi.
type PaymentSignal int

const (
	SignalNone PaymentSignal = iota
	SignalConfirmed
	SignalFailed
)

func MapTransactionStatus(transactionStatus, fraudStatus string) PaymentSignal {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return SignalNone
		}
		return SignalConfirmed
	case "settlement":
		return SignalConfirmed
	case "deny", "cancel", "expire", "failure":
		return SignalFailed
	default:
		return SignalNone
	}
}
