package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultAPIURL = "https://api.razorpay.com/v1"

// Client talks to the Razorpay orders API. Amounts are always in the minor
// currency unit (paise for INR).
type Client struct {
	KeyID      string
	KeySecret  string
	APIURL     string
	HTTPClient *http.Client
	MaxRetries int
}

// Order is the gateway's view of an order.
type Order struct {
	ID        string `json:"id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"` // created, attempted, paid
	CreatedAt int64  `json:"created_at"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// NewClientFromEnv builds a client from RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET
// and optionally RAZORPAY_API_URL.
func NewClientFromEnv() (*Client, error) {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("razorpay configuration missing")
	}
	apiURL := os.Getenv("RAZORPAY_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		KeyID:      keyID,
		KeySecret:  keySecret,
		APIURL:     apiURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		MaxRetries: 2,
	}, nil
}

// CreateOrder requests a gateway order for amount minor units, tagged with
// the local order's identifier as the receipt.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	payload := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := c.do(ctx, http.MethodPost, c.APIURL+"/orders", body, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay returned an order without an id")
	}
	return &order, nil
}

// FetchOrder reads the current gateway state of an order, used to reconcile
// orders whose payment callback never arrived.
func (c *Client) FetchOrder(ctx context.Context, gatewayOrderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, c.APIURL+"/orders/"+gatewayOrderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// do performs one authenticated request with bounded retries. Network errors
// and 5xx responses are retried; 4xx responses are returned immediately.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.KeyID, c.KeySecret)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to reach razorpay: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("razorpay server error (%d): %s", resp.StatusCode, respBody)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Description != "" {
				return fmt.Errorf("razorpay error: %s", apiErr.Error.Description)
			}
			return fmt.Errorf("razorpay API error (%d): %s", resp.StatusCode, respBody)
		}

		return json.Unmarshal(respBody, out)
	}
	return lastErr
}

// VerifySignature checks a payment callback signature. Razorpay signs
// "{gateway_order_id}|{payment_id}" with HMAC-SHA256 under the key secret and
// hex-encodes the digest. Comparison is constant-time.
func VerifySignature(secret, gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
