package stripe_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/home-services-api/internal/payments"
	"github.com/BruksfildServices01/home-services-api/internal/payments/stripe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signPayload(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	t.Run("assinatura válida", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now)
		assert.NoError(t, stripe.VerifySignature(payload, header, testSecret, now))
	})

	t.Run("segredo errado", func(t *testing.T) {
		header := signPayload(t, payload, "whsec_other", now)
		err := stripe.VerifySignature(payload, header, testSecret, now)
		assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	})

	t.Run("payload adulterado", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now)
		tampered := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","amount":1}`)
		err := stripe.VerifySignature(tampered, header, testSecret, now)
		assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	})

	t.Run("timestamp fora da janela", func(t *testing.T) {
		header := signPayload(t, payload, testSecret, now.Add(-10*time.Minute))
		err := stripe.VerifySignature(payload, header, testSecret, now)
		assert.ErrorIs(t, err, payments.ErrInvalidSignature)
	})

	t.Run("header ausente ou quebrado", func(t *testing.T) {
		assert.ErrorIs(t, stripe.VerifySignature(payload, "", testSecret, now), payments.ErrInvalidSignature)
		assert.ErrorIs(t, stripe.VerifySignature(payload, "garbage", testSecret, now), payments.ErrInvalidSignature)
		assert.ErrorIs(t, stripe.VerifySignature(payload, "t=123", testSecret, now), payments.ErrInvalidSignature)
	})

	t.Run("aceita múltiplos v1", func(t *testing.T) {
		good := signPayload(t, payload, testSecret, now)
		header := fmt.Sprintf("t=%d,v1=deadbeef,%s", now.Unix(), good[strings.Index(good, "v1="):])
		assert.NoError(t, stripe.VerifySignature(payload, header, testSecret, now))
	})
}

func TestParseEventPaymentIntent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_123",
				"metadata": {"booking_id": "42", "vendor_id": "7", "customer_id": "9"}
			}
		}
	}`)

	ev, err := stripe.ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, payments.EventPaymentSucceeded, ev.Type)
	assert.Equal(t, "pi_123", ev.PaymentRef)
	assert.Equal(t, "42", ev.Metadata["booking_id"])
}

func TestParseEventAccountUpdated(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"type": "account.updated",
		"data": {
			"object": {
				"id": "acct_9",
				"charges_enabled": true,
				"payouts_enabled": true,
				"details_submitted": true
			}
		}
	}`)

	ev, err := stripe.ParseEvent(payload)
	require.NoError(t, err)
	require.NotNil(t, ev.Account)
	assert.Equal(t, "acct_9", ev.Account.AccountID)
	assert.True(t, ev.Account.ChargesEnabled)
	assert.True(t, ev.Account.PayoutsEnabled)
}

func TestParseEventUnknownTypeStillParses(t *testing.T) {
	payload := []byte(`{"id":"evt_3","type":"customer.created","data":{"object":{"id":"cus_1"}}}`)

	ev, err := stripe.ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "customer.created", ev.Type)
	assert.Empty(t, ev.PaymentRef)
	assert.Nil(t, ev.Account)
}

func TestParseEventRejectsGarbage(t *testing.T) {
	_, err := stripe.ParseEvent([]byte(`not json`))
	assert.ErrorIs(t, err, payments.ErrInvalidPayload)

	_, err = stripe.ParseEvent([]byte(`{"type":"payment_intent.succeeded"}`))
	assert.ErrorIs(t, err, payments.ErrInvalidPayload)

	// evento de pagamento sem id de intent
	_, err = stripe.ParseEvent([]byte(`{"id":"evt_4","type":"payment_intent.succeeded","data":{"object":{}}}`))
	assert.ErrorIs(t, err, payments.ErrInvalidPayload)
}
