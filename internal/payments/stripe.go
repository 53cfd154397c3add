package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Currency is fixed: every intent is created in USD.
const Currency = "usd"

// Client creates card payment intents against the gateway's REST API and
// returns only the intent's client secret.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   baseURL,
		secretKey: secretKey,
	}
}

// MinorUnits converts a major-unit price to integer minor units. The value
// is truncated, not rounded.
func MinorUnits(price float64) int64 {
	return int64(price * 100)
}

func (c *Client) CreateIntent(ctx context.Context, amount int64) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", Currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("payments: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payments: create intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("payments: gateway error %d: %s", resp.StatusCode, b)
	}

	var result struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("payments: decode response: %w", err)
	}

	return result.ClientSecret, nil
}
