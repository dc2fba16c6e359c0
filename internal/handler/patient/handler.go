package patient

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/handler"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/model"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, ownerID, id string) (*model.Patient, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdatePatientRequest) (*model.Patient, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]model.Patient, error)
	Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.Patient], error)
	Contact(ctx context.Context, ownerID, id string) (*model.ContactLink, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes returns the patients group so the session routes can
// nest under it.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) *gin.RouterGroup {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.GET("/stream", h.StreamPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.PATCH("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
		patients.GET("/:id/contact", h.Contact)
	}
	return patients
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if !handler.Bind(c, &req) {
		return
	}

	patient, err := h.service.Create(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, patient)
}

func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.service.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, patient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, patients)
}

func (h *Handler) StreamPatients(c *gin.Context) {
	sub, err := h.service.Subscribe(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Stream(c, sub, "patients")
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if !handler.Bind(c, &req) {
		return
	}

	patient, err := h.service.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, patient)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) Contact(c *gin.Context) {
	link, err := h.service.Contact(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, link)
}
