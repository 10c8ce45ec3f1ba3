package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestEnabled(t *testing.T) {
	assert.True(t, NewClient("", "key", "secret", time.Second, nopLogger{}).Enabled())
	assert.False(t, NewClient("", "", "secret", time.Second, nopLogger{}).Enabled())
	assert.False(t, NewClient("", "key", "", time.Second, nopLogger{}).Enabled())
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("", "key", "secret", time.Second, nopLogger{})

	valid := sign("secret", "order_1", "pay_1")
	require.NoError(t, c.VerifySignature("order_1", "pay_1", valid))

	// Подпись от другого платежа не подходит
	err := c.VerifySignature("order_1", "pay_2", valid)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	err = c.VerifySignature("order_1", "pay_1", "forged")
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifySignature_Disabled(t *testing.T) {
	c := NewClient("", "", "", time.Second, nopLogger{})
	err := c.VerifySignature("order_1", "pay_1", "anything")
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_srv_1","entity":"order","amount":150000,"currency":"INR","receipt":"b1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", time.Second, nopLogger{})

	order, err := c.CreateOrder(context.Background(), 150000, "INR", "b1")
	require.NoError(t, err)
	assert.Equal(t, "order_srv_1", order.ID)
	assert.Equal(t, int64(150000), order.Amount)
}

func TestCreateOrder_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", time.Second, nopLogger{})

	_, err := c.CreateOrder(context.Background(), 150000, "INR", "b1")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/pay_1/refund", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"rfnd_srv_1","entity":"refund","amount":150000,"currency":"INR","payment_id":"pay_1","status":"processed"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", time.Second, nopLogger{})

	refund, err := c.Refund(context.Background(), "pay_1", 150000)
	require.NoError(t, err)
	assert.Equal(t, "rfnd_srv_1", refund.ID)
	assert.Equal(t, "pay_1", refund.PaymentID)
}

func TestDisabledClientRejectsCalls(t *testing.T) {
	c := NewClient("", "", "", time.Second, nopLogger{})

	_, err := c.CreateOrder(context.Background(), 1000, "INR", "b1")
	assert.ErrorIs(t, err, ErrGatewayDisabled)

	_, err = c.Refund(context.Background(), "pay_1", 1000)
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}
