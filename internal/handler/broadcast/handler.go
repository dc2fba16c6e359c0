package broadcast

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/handler"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/model"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req model.BroadcastRequest) (*model.BroadcastView, error)
	Get(ctx context.Context, ownerID, id string) (*model.BroadcastView, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateBroadcastRequest) (*model.BroadcastView, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]model.BroadcastView, error)
	Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.BroadcastView], error)
	AddParticipant(ctx context.Context, ownerID, id string, req model.AddParticipantRequest) (*model.BroadcastView, error)
	ToggleParticipant(ctx context.Context, ownerID, id, participantID string) (*model.BroadcastView, error)
	RemoveParticipant(ctx context.Context, ownerID, id, participantID string) (*model.BroadcastView, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	broadcasts := r.Group("/broadcasts")
	{
		broadcasts.GET("", h.ListBroadcasts)
		broadcasts.GET("/stream", h.StreamBroadcasts)
		broadcasts.POST("", h.CreateBroadcast)
		broadcasts.GET("/:id", h.GetBroadcast)
		broadcasts.PATCH("/:id", h.UpdateBroadcast)
		broadcasts.DELETE("/:id", h.DeleteBroadcast)

		broadcasts.POST("/:id/participants", h.AddParticipant)
		broadcasts.PATCH("/:id/participants/:pid/toggle", h.ToggleParticipant)
		broadcasts.DELETE("/:id/participants/:pid", h.RemoveParticipant)
	}
}

func (h *Handler) CreateBroadcast(c *gin.Context) {
	var req model.BroadcastRequest
	if !handler.Bind(c, &req) {
		return
	}

	view, err := h.service.Create(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, view)
}

func (h *Handler) GetBroadcast(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}

func (h *Handler) ListBroadcasts(c *gin.Context) {
	views, err := h.service.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, views)
}

func (h *Handler) StreamBroadcasts(c *gin.Context) {
	sub, err := h.service.Subscribe(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Stream(c, sub, "broadcasts")
}

func (h *Handler) UpdateBroadcast(c *gin.Context) {
	var req model.UpdateBroadcastRequest
	if !handler.Bind(c, &req) {
		return
	}

	view, err := h.service.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}

func (h *Handler) DeleteBroadcast(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) AddParticipant(c *gin.Context) {
	var req model.AddParticipantRequest
	if !handler.Bind(c, &req) {
		return
	}

	view, err := h.service.AddParticipant(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, view)
}

func (h *Handler) ToggleParticipant(c *gin.Context) {
	view, err := h.service.ToggleParticipant(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("pid"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}

func (h *Handler) RemoveParticipant(c *gin.Context) {
	view, err := h.service.RemoveParticipant(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("pid"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, view)
}
