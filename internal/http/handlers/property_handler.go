package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abhishekgaud7/PG-Backend/internal/domain"
	"github.com/abhishekgaud7/PG-Backend/internal/http/middleware"
	"github.com/abhishekgaud7/PG-Backend/internal/http/response"
	"github.com/abhishekgaud7/PG-Backend/internal/service"
)

type PropertyHandler struct {
	properties service.PropertyService
	authmw     *middleware.Auth
}

func NewPropertyHandler(properties service.PropertyService, authmw *middleware.Auth) *PropertyHandler {
	return &PropertyHandler{properties: properties, authmw: authmw}
}

func (h *PropertyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Protect)
		r.Use(h.authmw.Authorize(domain.RoleOwner))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Patch("/{id}/restore", h.restore)
	})
	return r
}

func (h *PropertyHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.PropertyFilter{
		City:   q.Get("city"),
		Type:   q.Get("type"),
		Gender: q.Get("gender"),
	}
	if v := q.Get("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := q.Get("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}

	props, err := h.properties.List(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", props)
}

func (h *PropertyHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	prop, err := h.properties.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "", prop)
}

func (h *PropertyHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner := middleware.UserFrom(r.Context())
	prop, err := h.properties.Create(r.Context(), owner.ID, &req)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, "Property created successfully", prop)
}

func (h *PropertyHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.PropertyPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner := middleware.UserFrom(r.Context())
	prop, err := h.properties.Update(r.Context(), owner.ID, id, patch)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Property updated successfully", prop)
}

func (h *PropertyHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	owner := middleware.UserFrom(r.Context())
	if err := h.properties.Delete(r.Context(), owner.ID, id); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Property deleted successfully", nil)
}

func (h *PropertyHandler) restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	owner := middleware.UserFrom(r.Context())
	prop, err := h.properties.Restore(r.Context(), owner.ID, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, "Property restored successfully", prop)
}

// pathID parses the {id} route parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
