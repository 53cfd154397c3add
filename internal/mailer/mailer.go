package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/emgimbal/shop/internal/models"
)

// Mailer sends transactional mail through the provider's REST API. Dispatch
// is fire-and-forget: delivery runs on its own goroutine with its own
// timeout, and failures are logged, never surfaced to the request.
type Mailer struct {
	APIURL     string
	APIKey     string
	Sender     string
	Log        *slog.Logger
	httpClient *http.Client
}

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

func New(apiURL, apiKey, sender string, log *slog.Logger) *Mailer {
	return &Mailer{
		APIURL: apiURL,
		APIKey: apiKey,
		Sender: sender,
		Log:    log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (m *Mailer) PurchaseConfirmation(p models.Purchase) Message {
	return Message{
		To:      p.UserEmail,
		ToName:  p.UserName,
		Subject: fmt.Sprintf("Your purchase of %s at %.2f is confirmed", p.ProductName, p.Price),
		Text:    fmt.Sprintf("Your purchase of %s at %.2f is confirmed.", p.ProductName, p.Price),
		HTML: fmt.Sprintf(
			"<div><h1>Hello %s,</h1><h3>Your purchase of %s is confirmed</h3><p>Please pay %.2f</p></div>",
			p.UserName, p.ProductName, p.Price,
		),
	}
}

func (m *Mailer) PaymentConfirmation(p models.Payment) Message {
	return Message{
		To:      p.UserEmail,
		ToName:  p.UserName,
		Subject: fmt.Sprintf("We have received your payment for %s at %.2f", p.TransactionID, p.Price),
		Text:    fmt.Sprintf("Your payment of %.2f is confirmed.", p.Price),
		HTML: fmt.Sprintf(
			"<div><h1>Hello %s,</h1><h3>Your payment for transaction %s is confirmed</h3><p>Thank you for your payment</p></div>",
			p.UserName, p.TransactionID,
		),
	}
}

// Dispatch sends msg in the background. At-most-once: no retry, no queue.
func (m *Mailer) Dispatch(msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Send(ctx, msg); err != nil {
			m.Log.Error("mail send failed", "to", msg.To, "subject", msg.Subject, "error", err)
			return
		}
		m.Log.Info("mail sent", "to", msg.To, "subject", msg.Subject)
	}()
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": msg.To, "name": msg.ToName}}},
		},
		"from":    map[string]string{"email": m.Sender},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": msg.Text},
			{"type": "text/html", "value": msg.HTML},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailer: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.APIURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailer: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mailer: provider error %d: %s", resp.StatusCode, b)
	}

	return nil
}
