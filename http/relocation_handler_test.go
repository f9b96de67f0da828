package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relocation-calculator/domain"
	"relocation-calculator/repository"
	"relocation-calculator/service"
)

func newRelocationHandler(policy domain.InvoicePolicy) *RelocationHandler {
	svc := service.NewRelocationService(repository.NewMemoryCache(), policy)
	return NewRelocationHandler(svc, domain.VariantSingle)
}

func postJSON(h *RelocationHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/relocation/calculate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Calculate(w, req)
	return w
}

func TestCalculateHandler_OK(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	w := postJSON(h, `{
		"fields": {
			"originalPrice": "1000",
			"alternativePrice": 1200,
			"bsbDiscount": "100"
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got calculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, calculateResponse{
		Variant:                domain.VariantSingle,
		Policy:                 domain.PolicyAlternativePrice,
		OriginalOutOfPocket:    "900.00",
		AlternativeOutOfPocket: "1100.00",
		Difference:             "200.00",
		GuestRefund:            "200.00",
		PropertyInvoice:        "1200.00",
		Text:                   "Guest Refund: $200.00\nProperty Invoice: $1200.00",
	}, got)
}

func TestCalculateHandler_DualVariant(t *testing.T) {
	h := newRelocationHandler(domain.PolicyOutOfPocketExcess)

	w := postJSON(h, `{
		"variant": "dual",
		"fields": {
			"originalPrice": "1000",
			"alternativePrice": "1200",
			"discountOnOriginal": "0",
			"discountOnAlternative": "50"
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got calculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "150.00", got.GuestRefund)
	assert.Equal(t, "150.00", got.PropertyInvoice)
	assert.Equal(t, domain.VariantDual, got.Variant)
}

func TestCalculateHandler_ValidationErrors(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	w := postJSON(h, `{"fields": {"originalPrice": "-5", "alternativePrice": "abc"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var got errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]string{
		"originalPrice":    domain.ReasonPositive,
		"alternativePrice": domain.ReasonNotANumber,
		"bsbDiscount":      domain.ReasonRequired,
	}, got.Errors)
}

func TestCalculateHandler_UnknownVariant(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	w := postJSON(h, `{"variant": "triple", "fields": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateHandler_MethodNotAllowed(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	req := httptest.NewRequest(http.MethodGet, "/relocation/calculate", nil)
	w := httptest.NewRecorder()
	h.Calculate(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateHandler_BadRequest(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	w := postJSON(h, `{invalid-json}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(h, `{"fields": {"originalPrice": true}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalculateHandler_BodyTooLarge(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	padding := strings.Repeat("0", maxRequestBody)
	w := postJSON(h, `{"fields": {"originalPrice": "1`+padding+`"}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCalculateHandler_HugeExponentIsRejected(t *testing.T) {
	h := newRelocationHandler(domain.PolicyAlternativePrice)

	w := postJSON(h, `{"fields": {"originalPrice": "1e5000000", "alternativePrice": "1", "bsbDiscount": "0"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Less(t, w.Body.Len(), 512)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, map[string]string{"originalPrice": domain.ReasonNotANumber}, resp.Errors)
}
