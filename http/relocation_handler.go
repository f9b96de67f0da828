package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"relocation-calculator/domain"
	"relocation-calculator/service"
)

const maxRequestBody = 1 << 20

// fieldValue accepts a JSON string or number and keeps its text.
type fieldValue string

func (v *fieldValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = fieldValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = fieldValue(n.String())
	return nil
}

type calculateRequest struct {
	Variant string                      `json:"variant"`
	Fields  map[domain.Field]fieldValue `json:"fields"`
}

type calculateResponse struct {
	Variant                domain.Variant       `json:"variant"`
	Policy                 domain.InvoicePolicy `json:"policy"`
	OriginalOutOfPocket    string               `json:"originalOutOfPocket"`
	AlternativeOutOfPocket string               `json:"alternativeOutOfPocket"`
	Difference             string               `json:"difference"`
	GuestRefund            string               `json:"guestRefund"`
	PropertyInvoice        string               `json:"propertyInvoice"`
	Text                   string               `json:"text"`
}

type RelocationHandler struct {
	service *service.RelocationService
	variant domain.Variant
	logger  *logrus.Entry
}

// NewRelocationHandler serves the JSON API. Requests without a variant use
// the given one.
func NewRelocationHandler(svc *service.RelocationService, variant domain.Variant) *RelocationHandler {
	return &RelocationHandler{
		service: svc,
		variant: variant,
		logger:  logrus.WithField("component", "relocation-api"),
	}
}

func (h *RelocationHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, h.logger, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		h.logger.WithError(err).Debug("invalid request body")
		writeJSON(w, h.logger, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	variant := h.variant
	if req.Variant != "" {
		v, err := service.ParseVariant(req.Variant)
		if err != nil {
			writeJSON(w, h.logger, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		variant = v
	}

	raw := make(map[domain.Field]string, len(req.Fields))
	for f, v := range req.Fields {
		raw[f] = string(v)
	}

	result, err := h.service.Calculate(r.Context(), variant, raw)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			writeJSON(w, h.logger, http.StatusUnprocessableEntity, errorResponse{Errors: verrs.Reasons()})
			return
		}
		h.logger.WithError(err).Error("calculation failed")
		writeJSON(w, h.logger, http.StatusInternalServerError, errorResponse{Error: "calculation failed"})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, calculateResponse{
		Variant:                variant,
		Policy:                 result.Policy,
		OriginalOutOfPocket:    result.OriginalOutOfPocket.StringFixed(2),
		AlternativeOutOfPocket: result.AlternativeOutOfPocket.StringFixed(2),
		Difference:             result.Difference.StringFixed(2),
		GuestRefund:            result.GuestRefund.StringFixed(2),
		PropertyInvoice:        result.PropertyInvoice.StringFixed(2),
		Text:                   service.ResultText(result),
	})
}
