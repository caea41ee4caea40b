package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhook(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)

	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))

	event, err := client.VerifyWebhook(payload, header)
	assert.Nil(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)
	assert.Equal(t, "pi_1", event.Data.Object.ID)
}

func TestVerifyWebhookWrongSecret(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)

	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_other", ts, payload))

	event, err := client.VerifyWebhook(payload, header)
	assert.Nil(t, event)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyWebhookTamperedBody(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"id":"evt_1"}`)

	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))

	event, err := client.VerifyWebhook([]byte(`{"id":"evt_2"}`), header)
	assert.Nil(t, event)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyWebhookStaleTimestamp(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"id":"evt_1"}`)

	ts := time.Now().Add(-10 * time.Minute).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload("whsec_test", ts, payload))

	event, err := client.VerifyWebhook(payload, header)
	assert.Nil(t, event)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyWebhookMalformedHeader(t *testing.T) {
	client := NewStripeClient("sk_test_123", "whsec_test")
	payload := []byte(`{"id":"evt_1"}`)

	for _, header := range []string{"", "v1=abcd", "t=123", "t=notanumber,v1=abcd"} {
		event, err := client.VerifyWebhook(payload, header)
		assert.Nil(t, event)
		assert.ErrorIs(t, err, ErrBadSignature)
	}
}

func TestVerifyWebhookNoSecret(t *testing.T) {
	client := NewStripeClient("sk_test_123", "")

	event, err := client.VerifyWebhook([]byte(`{}`), "t=1,v1=abcd")
	assert.Nil(t, event)
	assert.ErrorIs(t, err, ErrStripeNotConfigured)
}

func TestSessionsByPaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "pi_1", r.URL.Query().Get("payment_intent"))
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"cs_1","payment_status":"paid","metadata":{"purchaseId":"pur_1"}}]}`)
	}))
	defer server.Close()

	client := NewStripeClient("sk_test_123", "whsec_test").SetBaseURL(server.URL)

	sessions, err := client.SessionsByPaymentIntent(context.Background(), "pi_1")
	assert.Nil(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, "cs_1", sessions[0].ID)
	assert.Equal(t, "pur_1", sessions[0].Metadata["purchaseId"])
}

func TestCreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Nil(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "7500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "pur_1", r.PostForm.Get("metadata[purchaseId]"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_1","url":"https://checkout.test/cs_1","status":"open"}`)
	}))
	defer server.Close()

	client := NewStripeClient("sk_test_123", "whsec_test").SetBaseURL(server.URL)

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{
		AmountMinor: 7500,
		Currency:    "usd",
		ProductName: "Go from Scratch",
		SuccessURL:  "https://app.test/loading/my-enrollments",
		CancelURL:   "https://app.test/",
		PurchaseID:  "pur_1",
	})
	assert.Nil(t, err)
	assert.Equal(t, "https://checkout.test/cs_1", session.URL)
}

func TestCreateCheckoutSessionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid currency"}}`)
	}))
	defer server.Close()

	client := NewStripeClient("sk_test_123", "whsec_test").SetBaseURL(server.URL)

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{Currency: "bogus"})
	assert.Nil(t, session)
	assert.ErrorContains(t, err, "Invalid currency")
}

func TestCreateCheckoutSessionNotConfigured(t *testing.T) {
	client := NewStripeClient("", "")

	session, err := client.CreateCheckoutSession(context.Background(), CheckoutParams{})
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrStripeNotConfigured)
}
