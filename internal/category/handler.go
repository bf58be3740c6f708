// AngelaMos | 2026
// handler.go

package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/forum-system/forum-backend/internal/core"
	"github.com/forum-system/forum-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{categoryID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Put("/lock", h.SetLock)
			r.Put("/privacy", h.SetPrivacy)

			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", h.ListGrants)
				r.Put("/", h.Grant)
				r.Delete("/{userID}", h.Revoke)
			})
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	categories, err := h.service.ListVisible(r.Context(), userID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, categories)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.Get(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.OK(w, category)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	category, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "category name")
			return
		}
		respondError(w, err, "category")
		return
	}

	core.Created(w, category)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	category, err := h.service.Update(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "category name")
			return
		}
		respondError(w, err, "category")
		return
	}

	core.OK(w, category)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
	)
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetLock(w http.ResponseWriter, r *http.Request) {
	var req LockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	err := h.service.SetLocked(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
		req.Locked,
	)
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	var req PrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	err := h.service.SetPrivate(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
		req.Private,
	)
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	grant, err := h.service.GrantAccess(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
		req,
	)
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.OK(w, grant)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	err := h.service.RevokeAccess(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		respondError(w, err, "grant")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListGrants(w http.ResponseWriter, r *http.Request) {
	grants, err := h.service.ListGrants(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "categoryID"),
	)
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.OK(w, grants)
}

func respondError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	default:
		core.InternalServerError(w, err)
	}
}
