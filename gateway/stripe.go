package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// signatureTolerance is how far a webhook timestamp may drift before the
// event is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

var (
	ErrStripeNotConfigured = fmt.Errorf("stripe secret key is not configured")
	ErrBadSignature        = fmt.Errorf("webhook signature verification failed")
)

// StripeClient talks to the payment gateway. Construct it once at startup
// and pass it to whatever needs it.
type StripeClient struct {
	secretKey     string
	webhookSecret string
	http          *resty.Client
}

func NewStripeClient(secretKey, webhookSecret string) *StripeClient {
	return &StripeClient{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		http: resty.New().
			SetBaseURL(stripeBaseURL).
			SetTimeout(10 * time.Second),
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (s *StripeClient) SetBaseURL(url string) *StripeClient {
	s.http.SetBaseURL(url)
	return s
}

func (s *StripeClient) Configured() bool {
	return s.secretKey != ""
}

// CheckoutParams describes a single-item checkout session
type CheckoutParams struct {
	AmountMinor int64 // price in minor currency units
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	PurchaseID  string // correlation metadata, echoed back in session lookups
}

// CheckoutSession is the subset of the gateway's session object we consume
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

type sessionList struct {
	Data []CheckoutSession `json:"data"`
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession creates a hosted checkout page and returns the
// session including its redirect URL.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	if !s.Configured() {
		return nil, ErrStripeNotConfigured
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.secretKey).
		SetFormData(map[string]string{
			"mode":                                          "payment",
			"success_url":                                   p.SuccessURL,
			"cancel_url":                                    p.CancelURL,
			"metadata[purchaseId]":                          p.PurchaseID,
			"line_items[0][quantity]":                       "1",
			"line_items[0][price_data][currency]":           p.Currency,
			"line_items[0][price_data][unit_amount]":        strconv.FormatInt(p.AmountMinor, 10),
			"line_items[0][price_data][product_data][name]": p.ProductName,
		}).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("create checkout session: %s", apiErrorMessage(resp.Body()))
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return &session, nil
}

// SessionsByPaymentIntent lists the checkout sessions created for a payment
// intent. The webhook path uses this to recover the purchase id from
// session metadata.
func (s *StripeClient) SessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]CheckoutSession, error) {
	if !s.Configured() {
		return nil, ErrStripeNotConfigured
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.secretKey).
		SetQueryParam("payment_intent", paymentIntentID).
		Get("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("list sessions for intent: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("list sessions for intent: %s", apiErrorMessage(resp.Body()))
	}

	var list sessionList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("decode session list: %w", err)
	}
	return list.Data, nil
}

// ListCheckoutSessions returns recent checkout sessions. The repair pass
// scans these for stuck pending purchases.
func (s *StripeClient) ListCheckoutSessions(ctx context.Context, limit int) ([]CheckoutSession, error) {
	if !s.Configured() {
		return nil, ErrStripeNotConfigured
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.secretKey).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("list sessions: %s", apiErrorMessage(resp.Body()))
	}

	var list sessionList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("decode session list: %w", err)
	}
	return list.Data, nil
}

// Event is a verified webhook event
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the signature header against the raw request body and
// only then parses the event. The header format is
// "t=<unix>,v1=<hex hmac>[,v1=...]"; the signed content is "<t>.<body>".
func (s *StripeClient) VerifyWebhook(payload []byte, sigHeader string) (*Event, error) {
	if s.webhookSecret == "" {
		return nil, ErrStripeNotConfigured
	}

	timestamp, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return nil, err
	}

	if d := time.Since(time.Unix(timestamp, 0)); d > signatureTolerance || d < -signatureTolerance {
		return nil, ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	valid := false
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrBadSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &event, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return 0, nil, ErrBadSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, ErrBadSignature
	}
	return timestamp, signatures, nil
}

func apiErrorMessage(body []byte) string {
	var apiErr stripeError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return string(body)
}
