// Package partner provides the HTTP client for the banking partner API. It
// submits BAS payment instructions and advertises the partner's capability
// descriptor, which bounds what the rest of the engine may ask of it.
package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clearbas/compliance-engine/pkg/models"
	"github.com/clearbas/compliance-engine/pkg/payments"
)

// Default capability bounds advertised when the partner config leaves them
// unset.
const (
	DefaultMaxReadTransactions = 100
	DefaultMaxWriteCents       = 1_000_000
)

// ErrMissingCredentials is returned when the client is constructed without a
// base URL or API key.
var ErrMissingCredentials = errors.New("partner base url and api key are required")

// Error is a non-2xx response from the partner API.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("partner api error (status %d): %s", e.StatusCode, e.Detail)
}

// Client is a client for the banking partner API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	capability models.PartnerCapability
}

// Make sure we conform to the interface
var _ payments.Executor = (*Client)(nil)

// NewClient creates a new partner API client. Capability bounds left at zero
// take the package defaults.
func NewClient(baseURL, apiKey string, capability models.PartnerCapability) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}
	if capability.MaxReadTransactions == 0 {
		capability.MaxReadTransactions = DefaultMaxReadTransactions
	}
	if capability.MaxWriteCents == 0 {
		capability.MaxWriteCents = DefaultMaxWriteCents
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		capability: capability,
	}, nil
}

// Capability returns the partner's capability descriptor.
func (c *Client) Capability() models.PartnerCapability {
	return c.capability
}

// PaymentRequest is the payload submitted for one BAS payment attempt.
type PaymentRequest struct {
	AttemptID  string `json:"attemptId"`
	BasCycleID string `json:"basCycleId"`
	OrgID      string `json:"orgId"`
	Reference  string `json:"reference"`
}

// PaymentResponse is the partner's acknowledgement of a submitted payment.
type PaymentResponse struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// errorResponse is the partner's error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Execute submits the attempt to the partner's payments endpoint. Any non-2xx
// response comes back as *Error so callers can distinguish partner rejections
// from transport failures.
func (c *Client) Execute(ctx context.Context, attempt *models.BasPaymentAttempt) error {
	payload := PaymentRequest{
		AttemptID:  attempt.ID,
		BasCycleID: attempt.BasCycleID,
		OrgID:      attempt.OrgID,
		Reference:  fmt.Sprintf("BAS-%s-%d", attempt.BasCycleID, attempt.AttemptCount+1),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/bas/payments", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute payment request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if json.Unmarshal(bodyBytes, &errResp) != nil || errResp.Detail == "" {
			errResp.Detail = http.StatusText(resp.StatusCode)
		}
		return &Error{StatusCode: resp.StatusCode, Detail: errResp.Detail}
	}

	var ack PaymentResponse
	if err := json.Unmarshal(bodyBytes, &ack); err != nil {
		return fmt.Errorf("failed to decode payment response: %w", err)
	}
	return nil
}
