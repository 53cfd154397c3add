package mailer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emgimbal/shop/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSend(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v3/mail/send", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := New(srv.URL, "sg_key", "shop@example.com", discardLogger())
	msg := m.PurchaseConfirmation(models.Purchase{
		ProductName: "gimbal",
		Price:       99.5,
		UserEmail:   "buyer@example.com",
		UserName:    "Buyer",
	})

	require.NoError(t, m.Send(context.Background(), msg))
	require.Equal(t, "Bearer sg_key", gotAuth)

	from := gotBody["from"].(map[string]interface{})
	require.Equal(t, "shop@example.com", from["email"])
	require.Contains(t, gotBody["subject"], "gimbal")

	contents := gotBody["content"].([]interface{})
	require.Len(t, contents, 2)
}

func TestSendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := New(srv.URL, "sg_bad", "shop@example.com", discardLogger())
	err := m.Send(context.Background(), Message{To: "buyer@example.com", Subject: "hi"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "provider error 401")
}

func TestDispatchDoesNotBlock(t *testing.T) {
	delivered := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered <- struct{}{}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := New(srv.URL, "sg_key", "shop@example.com", discardLogger())
	m.Dispatch(m.PaymentConfirmation(models.Payment{
		TransactionID: "txn_001",
		Price:         99.5,
		UserEmail:     "buyer@example.com",
		UserName:      "Buyer",
	}))

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("mail was never dispatched")
	}
}

func TestTemplates(t *testing.T) {
	m := New("http://unused", "k", "shop@example.com", discardLogger())

	purchase := m.PurchaseConfirmation(models.Purchase{ProductName: "gimbal", Price: 99.5, UserEmail: "b@x.com", UserName: "B"})
	require.Equal(t, "b@x.com", purchase.To)
	require.Contains(t, purchase.Subject, "gimbal")
	require.NotEmpty(t, purchase.Text)
	require.Contains(t, purchase.HTML, "B")

	payment := m.PaymentConfirmation(models.Payment{TransactionID: "txn_9", Price: 99.5, UserEmail: "b@x.com", UserName: "B"})
	require.Equal(t, "b@x.com", payment.To)
	require.Contains(t, payment.Subject, "txn_9")
	require.Contains(t, payment.HTML, "txn_9")
}
