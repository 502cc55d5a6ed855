package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/armada-md/site-api/internal/content"
	"github.com/armada-md/site-api/internal/domain"
	"github.com/armada-md/site-api/internal/logger"
	"github.com/armada-md/site-api/internal/storage"
)

// DraftCRUDStore is the storage surface for the draft list/patch endpoints.
type DraftCRUDStore interface {
	ListDrafts(ctx context.Context, status domain.DraftStatus, contentType domain.DraftType, limit int) ([]domain.ContentDraft, error)
	GetDraft(ctx context.Context, id string) (*domain.ContentDraft, error)
	UpdateDraft(ctx context.Context, id string, update domain.DraftUpdate) error
}

// ContentHandler serves draft generation and the admin draft CRUD. A nil
// generator or store surfaces as 500 on the affected endpoints.
type ContentHandler struct {
	generator *content.Generator
	store     DraftCRUDStore
	log       logger.Logger
}

// NewContentHandler creates a ContentHandler. generator and store may be nil.
func NewContentHandler(generator *content.Generator, store DraftCRUDStore, log logger.Logger) *ContentHandler {
	return &ContentHandler{generator: generator, store: store, log: log}
}

type generateRequest struct {
	Type         string            `json:"type"`
	Topic        string            `json:"topic"`
	CustomPrompt string            `json:"customPrompt"`
	Variables    map[string]string `json:"variables"`
}

// HandleGenerate runs the draft generation pipeline.
func (h *ContentHandler) HandleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.Type == "" || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content type and topic are required"})
		return
	}

	draftType := domain.DraftType(req.Type)
	if !draftType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown content type"})
		return
	}

	if h.generator == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "content generation is not configured"})
		return
	}

	draft, err := h.generator.Generate(c.Request.Context(), content.GenerateInput{
		Type:         draftType,
		Topic:        req.Topic,
		CustomPrompt: req.CustomPrompt,
		Variables:    req.Variables,
	})
	if err != nil {
		h.log.Error("Content generation failed",
			logger.String("type", req.Type),
			logger.String("topic", req.Topic),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "draft": draft})
}

// HandleListDrafts lists drafts newest first with optional filters.
func (h *ContentHandler) HandleListDrafts(c *gin.Context) {
	status := domain.DraftStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	draftType := domain.DraftType(c.Query("type"))
	if draftType != "" && !draftType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown content type"})
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	if h.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database is not configured"})
		return
	}

	drafts, err := h.store.ListDrafts(c.Request.Context(), status, draftType, limit)
	if err != nil {
		h.log.Error("Draft list query failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch drafts"})
		return
	}
	if drafts == nil {
		drafts = []domain.ContentDraft{}
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

type patchDraftRequest struct {
	ID         string  `json:"id"`
	Status     *string `json:"status"`
	Content    *string `json:"content"`
	ReviewedBy *string `json:"reviewed_by"`
}

// HandlePatchDraft applies the provided fields to a draft. Status changes
// must follow the editorial pipeline; anything else is rejected.
func (h *ContentHandler) HandlePatchDraft(c *gin.Context) {
	var req patchDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "draft ID is required"})
		return
	}

	if h.store == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database is not configured"})
		return
	}

	ctx := c.Request.Context()

	update := domain.DraftUpdate{
		Content:    req.Content,
		ReviewedBy: req.ReviewedBy,
	}

	if req.Status != nil {
		newStatus := domain.DraftStatus(*req.Status)
		if !newStatus.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}

		current, err := h.store.GetDraft(ctx, req.ID)
		if errors.Is(err, storage.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		if err != nil {
			h.log.Error("Draft lookup failed", logger.String("draft_id", req.ID), logger.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update draft"})
			return
		}

		if !domain.CanTransition(current.Status, newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid status transition from " + string(current.Status) + " to " + string(newStatus),
			})
			return
		}
		update.Status = &newStatus
	}

	if err := h.store.UpdateDraft(ctx, req.ID, update); err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
			return
		}
		h.log.Error("Draft update failed", logger.String("draft_id", req.ID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update draft"})
		return
	}

	updated, err := h.store.GetDraft(ctx, req.ID)
	if errors.Is(err, storage.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
		return
	}
	if err != nil {
		h.log.Error("Draft reload failed", logger.String("draft_id", req.ID), logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "draft": updated})
}

// HandleAutoGenerate runs the scheduled draft generation. The route is
// gated by the cron bearer token.
func (h *ContentHandler) HandleAutoGenerate(c *gin.Context) {
	if h.generator == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "content generation is not configured"})
		return
	}

	generated, results, err := h.generator.AutoGenerate(c.Request.Context())
	if err != nil {
		h.log.Error("Auto-generation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auto-generation failed"})
		return
	}

	if generated == 0 && len(results) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "content quota reached for this week",
			"generated": 0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"generated": generated,
		"results":   results,
	})
}
