package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abhishekgaud7/PG-Backend/internal/http/middleware"
	"github.com/abhishekgaud7/PG-Backend/internal/http/response"
)

// PaymentHandler fakes a payment gateway: it mints reference ids without
// moving money, so booking flows can be exercised end to end.
type PaymentHandler struct {
	authmw *middleware.Auth
}

func NewPaymentHandler(authmw *middleware.Auth) *PaymentHandler {
	return &PaymentHandler{authmw: authmw}
}

func (h *PaymentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.authmw.Protect)
	r.Post("/mock-success", h.mockSuccess)
	return r
}

func (h *PaymentHandler) mockSuccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount <= 0 {
		response.Fail(w, http.StatusBadRequest, "Amount must be greater than zero")
		return
	}

	suffix := strings.Split(uuid.NewString(), "-")[0]
	paymentID := fmt.Sprintf("MOCK_PAY_%d_%s", time.Now().UnixMilli(), suffix)

	response.OK(w, "Payment processed successfully", map[string]any{
		"payment_id": paymentID,
		"amount":     req.Amount,
		"status":     "success",
	})
}
