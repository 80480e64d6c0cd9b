package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/http/middleware"
	"github.com/abhishekgaud7/PG-Backend/internal/http/response"
	"github.com/abhishekgaud7/PG-Backend/internal/service"
)

type AuthHandler struct {
	auth    service.AuthService
	otp     service.OTPService
	limiter *middleware.RateLimiter
}

func NewAuthHandler(auth service.AuthService, otp service.OTPService, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp, limiter: limiter}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(h.limiter.Limit("register", 3, time.Hour)).Post("/register", h.register)
	r.With(h.limiter.Limit("login", 5, 15*time.Minute)).Post("/login", h.login)
	r.With(h.limiter.Limit("send-otp", 3, 10*time.Minute)).Post("/send-otp", h.sendOTP)
	r.With(h.limiter.Limit("verify-otp", 5, 10*time.Minute)).Post("/verify-otp", h.verifyOTP)
	return r
}

// authData flattens the user fields and token into one object, the shape
// clients store after any successful authentication.
type authData struct {
	*domain.UserInfo
	Token string `json:"token"`
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Created(w, "User registered successfully", authData{UserInfo: user, Token: token})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, "Login successful", authData{UserInfo: user, Token: token})
}

func (h *AuthHandler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.otp.Request(r.Context(), req.Phone)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	data := map[string]any{"expires_at": result.ExpiresAt.Format(time.RFC3339)}
	if result.Code != "" {
		data["code"] = result.Code
		data["dev_message"] = "OTP shown for development only"
	}
	response.OK(w, "OTP sent successfully", data)
}

func (h *AuthHandler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		response.Fail(w, http.StatusBadRequest, "OTP code is required")
		return
	}

	user, token, err := h.otp.Verify(r.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, "Phone verified successfully", authData{UserInfo: user, Token: token})
}
