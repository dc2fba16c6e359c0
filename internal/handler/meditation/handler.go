package meditation

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/handler"
	"github.com/jwalitptl/practice-api/internal/model"
)

// Library is shared by every owner.
type Library interface {
	List() []model.Meditation
	Get(id string) (*model.Meditation, error)
	Add(m model.Meditation) (*model.Meditation, error)
	Update(id string, m model.Meditation) (*model.Meditation, error)
	Remove(id string) error
}

type Handler struct {
	library Library
}

func NewHandler(library Library) *Handler {
	return &Handler{library: library}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	meditations := r.Group("/meditations")
	{
		meditations.GET("", h.ListMeditations)
		meditations.POST("", h.AddMeditation)
		meditations.GET("/:id", h.GetMeditation)
		meditations.PUT("/:id", h.UpdateMeditation)
		meditations.DELETE("/:id", h.RemoveMeditation)
	}
}

func (h *Handler) ListMeditations(c *gin.Context) {
	handler.OK(c, h.library.List())
}

func (h *Handler) GetMeditation(c *gin.Context) {
	m, err := h.library.Get(c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, m)
}

func (h *Handler) AddMeditation(c *gin.Context) {
	var req model.Meditation
	if !handler.Bind(c, &req) {
		return
	}

	m, err := h.library.Add(req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, m)
}

func (h *Handler) UpdateMeditation(c *gin.Context) {
	var req model.Meditation
	if !handler.Bind(c, &req) {
		return
	}

	m, err := h.library.Update(c.Param("id"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, m)
}

func (h *Handler) RemoveMeditation(c *gin.Context) {
	if err := h.library.Remove(c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}
