package razorpay

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
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Client клиент платежного шлюза Razorpay
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Razorpay.
// Пустой baseURL заменяется на боевой адрес шлюза.
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration, log Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled сообщает, сконфигурирован ли шлюз. Без ключей платные
// бронирования недоступны.
func (c *Client) Enabled() bool {
	return c.keyID != "" && c.keySecret != ""
}

// KeyID возвращает публичный идентификатор ключа; фронт использует его
// для инициализации платежной формы
func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder создает заказ на оплату. Сумма в пайсах.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*Order, error) {
	if !c.Enabled() {
		return nil, ErrGatewayDisabled
	}

	reqBody := createOrderRequest{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
	}

	var order Order
	if err := c.doRequest(ctx, http.MethodPost, "/v1/orders", reqBody, &order); err != nil {
		return nil, err
	}

	c.log.Info("Created razorpay order %s for amount %d %s", order.ID, amountPaise, currency)
	return &order, nil
}

// Refund создает полный возврат по платежу. Сумма в пайсах.
func (c *Client) Refund(ctx context.Context, paymentID string, amountPaise int64) (*Refund, error) {
	if !c.Enabled() {
		return nil, ErrGatewayDisabled
	}

	reqBody := refundRequest{
		Amount: amountPaise,
	}

	path := fmt.Sprintf("/v1/payments/%s/refund", paymentID)

	var refund Refund
	if err := c.doRequest(ctx, http.MethodPost, path, reqBody, &refund); err != nil {
		return nil, err
	}

	c.log.Info("Created razorpay refund %s for payment %s, amount %d", refund.ID, paymentID, amountPaise)
	return &refund, nil
}

// VerifySignature проверяет подпись платежа: HMAC-SHA256 от
// "order_id|payment_id" на секретном ключе
func (c *Client) VerifySignature(orderID, paymentID, signature string) error {
	if !c.Enabled() {
		return ErrGatewayDisabled
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}

	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
