// AngelaMos | 2026
// handler.go

package messaging

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	r.Route("/conversations", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListConversations)
		r.Get("/{conversationID}/messages", h.ListMessages)
	})

	r.With(authenticator).Post("/messages", h.SendMessage)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	message, err := h.service.SendMessage(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "cannot message yourself")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "recipient")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, message)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.service.ListConversations(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, conversations)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := h.service.ListMessages(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "conversationID"),
		limit,
		offset,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "conversation")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, messages)
}
