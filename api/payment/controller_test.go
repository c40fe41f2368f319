package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantina/api/middleware"
	"cantina/api/response"
	infrapayment "cantina/infrastructure/payment"
)

func newTestEngine(t *testing.T, gateway *infrapayment.MockGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	v1 := engine.Group("/api/v1")
	v1.Use(middleware.IdentityMiddleware())
	NewController(gateway).RegisterRoutes(v1)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "emp-1")
	req.Header.Set("X-User-Role", "EMPLOYEE")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListMethodsEndpoint(t *testing.T) {
	engine := newTestEngine(t, infrapayment.NewMockGateway(0, 0))

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/payments/methods", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	methods := resp.Data.(map[string]interface{})["methods"].([]interface{})
	assert.Contains(t, methods, "credit_card")
	assert.Contains(t, methods, "corporate_account")
}

func TestChargeEndpoint(t *testing.T) {
	engine := newTestEngine(t, infrapayment.NewMockGateway(0, 0))

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/payments/charge",
		`{"method":"credit_card","amount":1775,"order_id":"order-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Regexp(t, `^TXN-\d{8}-[A-Z2-9]{6}$`, data["transaction_id"])
	assert.Equal(t, float64(1775), data["amount"])
	assert.Equal(t, "USD", data["currency"])
}

func TestChargeEndpointDeclined(t *testing.T) {
	engine := newTestEngine(t, infrapayment.NewMockGateway(0, 1.0))

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/payments/charge",
		`{"method":"paypal","amount":500}`)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	resp := decode(t, rec)
	assert.Equal(t, "PAYMENT_DECLINED", resp.Error)
}

func TestChargeEndpointRejectsBadBody(t *testing.T) {
	engine := newTestEngine(t, infrapayment.NewMockGateway(0, 0))

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/payments/charge",
		`{"method":"credit_card","amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
