package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/category"
	"github.com/MrJamesThe3rd/envelope/internal/http/auth"
	"github.com/MrJamesThe3rd/envelope/internal/http/response"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{categoryID}", h.get)
	r.Patch("/{categoryID}", h.update)
	r.Delete("/{categoryID}", h.delete)
}

type createCategoryRequest struct {
	Name     string        `json:"name"`
	Kind     category.Kind `json:"kind,omitempty"`
	ParentID *uuid.UUID    `json:"parent_id,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), category.CreateParams{
		Name:     req.Name,
		Kind:     req.Kind,
		ParentID: req.ParentID,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, cats)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "categoryID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

type updateCategoryRequest struct {
	Name     *string    `json:"name,omitempty"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "categoryID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req updateCategoryRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	c, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, category.UpdateParams{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := response.IDParam(r, "categoryID")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		response.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
