package journal

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/handler"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/model"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req model.JournalEntryRequest) (*model.JournalEntry, error)
	Get(ctx context.Context, ownerID, id string) (*model.JournalEntry, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateJournalEntryRequest) (*model.JournalEntry, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]model.JournalEntry, error)
	Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.JournalEntry], error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	journal := r.Group("/journal")
	{
		journal.GET("", h.ListEntries)
		journal.GET("/stream", h.StreamEntries)
		journal.POST("", h.CreateEntry)
		journal.GET("/:id", h.GetEntry)
		journal.PATCH("/:id", h.UpdateEntry)
		journal.DELETE("/:id", h.DeleteEntry)
	}
}

func (h *Handler) CreateEntry(c *gin.Context) {
	var req model.JournalEntryRequest
	if !handler.Bind(c, &req) {
		return
	}

	entry, err := h.service.Create(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, entry)
}

func (h *Handler) GetEntry(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, entry)
}

func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, entries)
}

func (h *Handler) StreamEntries(c *gin.Context) {
	sub, err := h.service.Subscribe(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Stream(c, sub, "journal")
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	var req model.UpdateJournalEntryRequest
	if !handler.Bind(c, &req) {
		return
	}

	entry, err := h.service.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, entry)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}
