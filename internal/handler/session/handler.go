package session

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/handler"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/model"
)

// Ledger is the session ledger of one patient.
type Ledger interface {
	Add(ctx context.Context, ownerID, patientID string, input model.SessionInput) (*model.Session, error)
	Edit(ctx context.Context, ownerID, patientID, sessionID string, patch model.SessionPatch) (*model.Session, error)
	CollectPayment(ctx context.Context, ownerID, patientID, sessionID string, method model.PaymentMethod) (*model.Session, error)
	Delete(ctx context.Context, ownerID, patientID, sessionID string) error
	List(ctx context.Context, ownerID, patientID string) ([]model.Session, error)
	Subscribe(ctx context.Context, ownerID, patientID string) (*feed.Subscription[[]model.Session], error)
	Summary(ctx context.Context, ownerID, patientID string) (*model.LedgerSummary, error)
}

type Handler struct {
	ledger Ledger
}

func NewHandler(ledger Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// RegisterRoutes expects the patients group.
func (h *Handler) RegisterRoutes(patients *gin.RouterGroup) {
	sessions := patients.Group("/:id/sessions")
	{
		sessions.GET("", h.ListSessions)
		sessions.GET("/stream", h.StreamSessions)
		sessions.GET("/summary", h.Summary)
		sessions.POST("", h.AddSession)
		sessions.PATCH("/:sid", h.EditSession)
		sessions.POST("/:sid/collect", h.CollectPayment)
		sessions.DELETE("/:sid", h.DeleteSession)
	}
}

func (h *Handler) AddSession(c *gin.Context) {
	var input model.SessionInput
	if !handler.Bind(c, &input) {
		return
	}

	session, err := h.ledger.Add(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), input)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, session)
}

func (h *Handler) EditSession(c *gin.Context) {
	var patch model.SessionPatch
	if !handler.Bind(c, &patch) {
		return
	}

	session, err := h.ledger.Edit(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("sid"), patch)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, session)
}

func (h *Handler) CollectPayment(c *gin.Context) {
	var req model.CollectPaymentRequest
	if !handler.Bind(c, &req) {
		return
	}

	session, err := h.ledger.CollectPayment(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("sid"), req.Method)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, session)
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.ledger.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), c.Param("sid")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}

func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.ledger.List(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, sessions)
}

func (h *Handler) StreamSessions(c *gin.Context) {
	sub, err := h.ledger.Subscribe(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Stream(c, sub, "sessions")
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.ledger.Summary(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, summary)
}
