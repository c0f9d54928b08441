package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("rzp_test_key", "topsecret")

	sig := signPayload("topsecret", "order_9", "pay_9")

	assert.True(t, g.VerifySignature("order_9", "pay_9", sig))
	assert.False(t, g.VerifySignature("order_9", "pay_9", sig+"x"))
	assert.False(t, g.VerifySignature("order_other", "pay_9", sig))
}

func TestVerifySignatureFailsClosed(t *testing.T) {
	sig := signPayload("topsecret", "order_9", "pay_9")

	noSecret := NewRazorpayGateway("rzp_test_key", "")
	assert.False(t, noSecret.VerifySignature("order_9", "pay_9", sig))

	g := NewRazorpayGateway("rzp_test_key", "topsecret")
	assert.False(t, g.VerifySignature("order_9", "pay_9", ""))
}

func TestCreateOrder(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "topsecret", pass)

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(Order{
			ID:       "order_srv_1",
			Amount:   150000,
			Currency: "INR",
			Receipt:  "rcpt_1",
			Status:   "created",
		})
	}))
	defer server.Close()

	g := NewRazorpayGateway("rzp_test_key", "topsecret")
	g.baseURL = server.URL

	order, err := g.CreateOrder(150000, "INR", "rcpt_1", map[string]string{"property_id": "42"})
	require.NoError(t, err)

	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, "order_srv_1", order.ID)
	assert.Equal(t, int64(150000), order.Amount)
	assert.Equal(t, float64(150000), gotBody["amount"])
	assert.Equal(t, "INR", gotBody["currency"])
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"bad credentials"}}`))
	}))
	defer server.Close()

	g := NewRazorpayGateway("rzp_test_key", "wrong")
	g.baseURL = server.URL

	_, err := g.CreateOrder(150000, "INR", "rcpt_1", nil)
	assert.Error(t, err)
}
