package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/http/middleware"
	"github.com/abhishekgaud7/PG-Backend/internal/http/response"
	"github.com/abhishekgaud7/PG-Backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
	authmw   *middleware.Auth
}

func NewBookingHandler(bookings service.BookingService, authmw *middleware.Auth) *BookingHandler {
	return &BookingHandler{bookings: bookings, authmw: authmw}
}

func (h *BookingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.authmw.Protect)

	r.Post("/", h.create)
	r.Get("/my", h.listMine)
	r.Delete("/{id}", h.cancel)

	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authorize(domain.RoleOwner))
		r.Get("/owner", h.listForOwner)
		r.Get("/property/{id}", h.listForProperty)
		r.Patch("/{id}", h.updateStatus)
		r.Patch("/{id}/restore", h.restore)
	})
	return r
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := middleware.UserFrom(r.Context())
	booking, err := h.bookings.Create(r.Context(), user.ID, &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, "Booking created successfully", booking)
}

func (h *BookingHandler) listMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	bookings, err := h.bookings.ListForUser(r.Context(), user.ID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", bookings)
}

func (h *BookingHandler) listForOwner(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	bookings, err := h.bookings.ListForOwner(r.Context(), user.ID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", bookings)
}

func (h *BookingHandler) listForProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := middleware.UserFrom(r.Context())
	bookings, err := h.bookings.ListForProperty(r.Context(), user.ID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", bookings)
}

func (h *BookingHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := middleware.UserFrom(r.Context())
	booking, err := h.bookings.UpdateStatus(r.Context(), user.ID, id, domain.BookingStatus(req.Status))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Booking status updated successfully", booking)
}

func (h *BookingHandler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := middleware.UserFrom(r.Context())
	if err := h.bookings.Cancel(r.Context(), user.ID, id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Booking cancelled successfully", nil)
}

func (h *BookingHandler) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := middleware.UserFrom(r.Context())
	booking, err := h.bookings.Restore(r.Context(), user.ID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Booking restored successfully", booking)
}
