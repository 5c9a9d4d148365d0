package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
	pgrepo "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/repo/postgres"
	authsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/auth"
	contentsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/content"
	modsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/moderation"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/dto"
	httperrors "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/errors"
)

type ContentProvider interface {
	GetItem(ctx context.Context, id string) (model.ContentItem, error)
	SignedMediaURL(ctx context.Context, item model.ContentItem) (string, error)
}

type ModerationHandler struct {
	service *modsvc.Service
	content ContentProvider
}

func NewModerationHandler(service *modsvc.Service, content ContentProvider) *ModerationHandler {
	return &ModerationHandler{service: service, content: content}
}

// Run triggers the automatic pipeline for one content item. Re-running an
// already moderated item returns the existing record unchanged.
func (h *ModerationHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.service == nil || h.content == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	contentID := chi.URLParam(r, "contentID")
	item, err := h.content.GetItem(r.Context(), contentID)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrContentNotFound):
			writeNotFound(w, "CONTENT_NOT_FOUND", "content item not found")
		case errors.Is(err, contentsvc.ErrValidation):
			writeBadRequest(w, "INVALID_CONTENT_ID", "content id is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load content item")
		}
		return
	}

	input := modsvc.EvaluationInput{
		Title:        item.Title,
		Description:  item.Description,
		ExternalLink: item.ExternalLink,
	}
	if item.ObjectKey != "" {
		url, signErr := h.content.SignedMediaURL(r.Context(), item)
		if signErr != nil {
			writeInternal(w, "INTERNAL_ERROR", "failed to sign media url")
			return
		}
		input.MediaURL = url
	}

	record, err := h.service.Moderate(r.Context(), item.ID, item.Type, input)
	if err != nil {
		if errors.Is(err, modsvc.ErrValidation) {
			writeBadRequest(w, "INVALID_CONTENT_ID", "content id is required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to moderate content")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewModerationRecordResponse(record))
}

func (h *ModerationHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	record, err := h.service.GetRecord(r.Context(), chi.URLParam(r, "contentID"))
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrModerationRecordNotFound):
			writeNotFound(w, "RECORD_NOT_FOUND", "moderation record not found")
		case errors.Is(err, modsvc.ErrValidation):
			writeBadRequest(w, "INVALID_CONTENT_ID", "content id is required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load moderation record")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewModerationRecordResponse(record))
}

func (h *ModerationHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	var req dto.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "INVALID_BODY", "request body is not valid json")
		return
	}

	record, err := h.service.SubmitHumanReview(r.Context(), chi.URLParam(r, "id"), enums.ReviewDecision(req.Decision), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrUnauthorized):
			writeUnauthorized(w, "UNAUTHORIZED", "authenticated reviewer required")
		case errors.Is(err, pgrepo.ErrModerationRecordNotFound):
			writeNotFound(w, "RECORD_NOT_FOUND", "moderation record not found")
		case errors.Is(err, modsvc.ErrValidation):
			writeBadRequest(w, "INVALID_REVIEW", "decision must be approve or reject")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to submit review")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewModerationRecordResponse(record))
}

func (h *ModerationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MODERATION_SERVICE_UNAVAILABLE", "moderation service is unavailable")
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load moderation stats")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ModerationStatsResponse{
		Total:            stats.Total,
		Approved:         stats.Approved,
		Rejected:         stats.Rejected,
		Pending:          stats.Pending,
		AutoApprovalRate: stats.AutoApprovalRate,
	})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
