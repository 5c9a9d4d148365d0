package handlers

import (
	"errors"
	"net/http"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
	authsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/auth"
	contentsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/content"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/dto"
	httperrors "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/transport/http/errors"
)

const maxUploadBytes = 64 << 20

type ContentHandler struct {
	service *contentsvc.Service
}

func NewContentHandler(service *contentsvc.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONTENT_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeBadRequest(w, "INVALID_BODY", "multipart form is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "FILE_REQUIRED", "file field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	item, err := h.service.UploadItem(r.Context(), identity.UserID, contentsvc.Upload{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		ExternalLink: r.FormValue("external_link"),
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Body:         file,
		Size:         header.Size,
	})
	if err != nil {
		if errors.Is(err, contentsvc.ErrValidation) {
			writeBadRequest(w, "INVALID_CONTENT", "title and file are required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to upload content")
		return
	}

	httperrors.Write(w, http.StatusCreated, h.toResponse(r, item))
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONTENT_SERVICE_UNAVAILABLE", "content service is unavailable")
		return
	}

	items, err := h.service.ListRecent(r.Context(), parseLimit(r, 50))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list content")
		return
	}

	resp := dto.ContentListResponse{Items: make([]dto.ContentItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, h.toResponse(r, item))
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *ContentHandler) toResponse(r *http.Request, item model.ContentItem) dto.ContentItemResponse {
	resp := dto.ContentItemResponse{
		ID:           item.ID,
		CreatorID:    item.CreatorID,
		ContentType:  string(item.Type),
		Title:        item.Title,
		Description:  item.Description,
		ExternalLink: item.ExternalLink,
		CreatedAt:    item.CreatedAt,
	}
	if item.ObjectKey != "" {
		if url, err := h.service.SignedMediaURL(r.Context(), item); err == nil {
			resp.MediaURL = url
		}
	}
	return resp
}
