package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const clerkBaseURL = "https://api.clerk.com/v1"

// RoleEducator is the only role this backend assigns or checks
const RoleEducator = "educator"

var ErrClerkNotConfigured = fmt.Errorf("clerk secret key is not configured")

// ClerkClient talks to the identity gateway. Roles live in the provider's
// public metadata; there is no local role storage.
type ClerkClient struct {
	secretKey     string
	webhookSecret string
	http          *resty.Client
}

func NewClerkClient(secretKey, webhookSecret string) *ClerkClient {
	return &ClerkClient{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		http: resty.New().
			SetBaseURL(clerkBaseURL).
			SetTimeout(10 * time.Second),
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *ClerkClient) SetBaseURL(url string) *ClerkClient {
	c.http.SetBaseURL(url)
	return c
}

func (c *ClerkClient) Configured() bool {
	return c.secretKey != ""
}

type clerkUser struct {
	PublicMetadata map[string]interface{} `json:"public_metadata"`
}

// GetUserRole fetches the subject's role attribute. Returns "" when the
// subject has no role set.
func (c *ClerkClient) GetUserRole(ctx context.Context, userID string) (string, error) {
	if !c.Configured() {
		return "", ErrClerkNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		Get("/users/" + userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if resp.StatusCode() == 404 {
		return "", fmt.Errorf("user %s not found", userID)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("get user: %s", resp.String())
	}

	var user clerkUser
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return "", fmt.Errorf("decode user: %w", err)
	}

	role, _ := user.PublicMetadata["role"].(string)
	return role, nil
}

// SetUserRole updates the subject's role in public metadata
func (c *ClerkClient) SetUserRole(ctx context.Context, userID, role string) error {
	if !c.Configured() {
		return ErrClerkNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.secretKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"public_metadata": map[string]string{"role": role},
		}).
		Patch("/users/" + userID + "/metadata")
	if err != nil {
		return fmt.Errorf("update user metadata: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("update user metadata: %s", resp.String())
	}
	return nil
}

// VerifyWebhook validates a svix-signed webhook delivery. The signed content
// is "<id>.<timestamp>.<body>", the secret is base64 after the "whsec_"
// prefix, and the signature header carries space-separated "v1,<base64>"
// entries.
func (c *ClerkClient) VerifyWebhook(payload []byte, msgID, timestamp, signature string) error {
	if c.webhookSecret == "" {
		return ErrClerkNotConfigured
	}
	if msgID == "" || timestamp == "" || signature == "" {
		return ErrBadSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if d := time.Since(time.Unix(ts, 0)); d > signatureTolerance || d < -signatureTolerance {
		return ErrBadSignature
	}

	secret, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(c.webhookSecret, "whsec_"))
	if err != nil {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, entry := range strings.Fields(signature) {
		parts := strings.SplitN(entry, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}
	return ErrBadSignature
}
