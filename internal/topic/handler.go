// AngelaMos | 2026
// handler.go

package topic

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
	r.Route("/topics", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListByCategory)
		r.Post("/", h.Create)

		r.Route("/{topicID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Put("/lock", h.SetLock)
			r.Put("/best-reply", h.SelectBestReply)

			r.Route("/replies", func(r chi.Router) {
				r.Get("/", h.ListReplies)
				r.Post("/", h.CreateReply)
			})
		})
	})

	r.Route("/replies/{replyID}", func(r chi.Router) {
		r.Use(authenticator)
		r.Put("/", h.UpdateReply)
		r.Delete("/", h.DeleteReply)
		r.Post("/reactions", h.ToggleReaction)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	topic, err := h.service.CreateTopic(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "topic title")
			return
		}
		respondError(w, err, "category")
		return
	}

	core.Created(w, topic)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	topic, err := h.service.GetTopic(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
	)
	if err != nil {
		respondError(w, err, "topic")
		return
	}

	core.OK(w, topic)
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	if categoryID == "" {
		core.BadRequest(w, "category_id is required")
		return
	}

	params := ListTopicsParams{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	params.Normalize()

	topics, total, err := h.service.ListTopics(
		r.Context(),
		middleware.GetUserID(r.Context()),
		categoryID,
		params,
	)
	if err != nil {
		respondError(w, err, "category")
		return
	}

	core.Paginated(w, topics, params.Page, params.PageSize, total)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	topic, err := h.service.UpdateTopic(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "topic title")
			return
		}
		respondError(w, err, "topic")
		return
	}

	core.OK(w, topic)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteTopic(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
	)
	if err != nil {
		respondError(w, err, "topic")
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetLock(w http.ResponseWriter, r *http.Request) {
	var req LockTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	err := h.service.SetTopicLock(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
		req.Locked,
	)
	if err != nil {
		respondError(w, err, "topic")
		return
	}

	core.NoContent(w)
}

func (h *Handler) SelectBestReply(w http.ResponseWriter, r *http.Request) {
	var req BestReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	topic, err := h.service.SelectBestReply(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
		req.ReplyID,
	)
	if err != nil {
		respondError(w, err, "reply")
		return
	}

	core.OK(w, topic)
}

func (h *Handler) CreateReply(w http.ResponseWriter, r *http.Request) {
	var req CreateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reply, err := h.service.CreateReply(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
		req,
	)
	if err != nil {
		respondError(w, err, "topic")
		return
	}

	core.Created(w, reply)
}

func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.service.ListReplies(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "topicID"),
	)
	if err != nil {
		respondError(w, err, "topic")
		return
	}

	core.OK(w, replies)
}

func (h *Handler) UpdateReply(w http.ResponseWriter, r *http.Request) {
	var req UpdateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	reply, err := h.service.UpdateReply(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "replyID"),
		req,
	)
	if err != nil {
		respondError(w, err, "reply")
		return
	}

	core.OK(w, reply)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteReply(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "replyID"),
	)
	if err != nil {
		respondError(w, err, "reply")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ToggleReaction(w http.ResponseWriter, r *http.Request) {
	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	replyID := chi.URLParam(r, "replyID")
	reaction, err := h.service.ToggleReaction(
		r.Context(),
		middleware.GetUserID(r.Context()),
		replyID,
		req.Value,
	)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid reaction value")
			return
		}
		respondError(w, err, "reply")
		return
	}

	resp := ReactionResponse{ReplyID: replyID, Removed: reaction == nil}
	if reaction != nil {
		resp.Value = reaction.Value
	}

	core.OK(w, resp)
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
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
