package get_payment_key

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}

type stubGateway struct {
	enabled bool
	keyID   string
}

func (g *stubGateway) Enabled() bool { return g.enabled }
func (g *stubGateway) KeyID() string { return g.keyID }

func TestHandle_ReturnsKey(t *testing.T) {
	h := NewHandler(&stubGateway{enabled: true, keyID: "rzp_test_abc123"}, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/razorpay-key", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp keyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rzp_test_abc123", resp.Key)
}

func TestHandle_GatewayDisabled(t *testing.T) {
	h := NewHandler(&stubGateway{enabled: false}, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/razorpay-key", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
