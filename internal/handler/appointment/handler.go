package appointment

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-api/internal/calendar"
	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/handler"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/model"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, ownerID, id string) (*model.Appointment, error)
	Update(ctx context.Context, ownerID, id string, req model.UpdateAppointmentRequest) (*model.Appointment, error)
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]model.Appointment, error)
	Subscribe(ctx context.Context, ownerID string) (*feed.Subscription[[]model.Appointment], error)
	Calendar(ctx context.Context, ownerID string, ref time.Time, weekStart time.Weekday) (calendar.Grid, error)
	CalendarSubscription(ctx context.Context, ownerID string, ref time.Time, weekStart time.Weekday) (*feed.Subscription[calendar.Grid], error)
	Agenda(ctx context.Context, ownerID string, day time.Time) ([]model.Appointment, error)
	Location() *time.Location
	WeekStart() time.Weekday
	Today() time.Time
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.GET("/stream", h.StreamAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}

	r.GET("/calendar", h.Calendar)
	r.GET("/agenda", h.Agenda)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !handler.Bind(c, &req) {
		return
	}

	appointment, err := h.service.Create(c.Request.Context(), middleware.OwnerID(c), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Created(c, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	appointment, err := h.service.Get(c.Request.Context(), middleware.OwnerID(c), c.Param("id"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.service.List(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, appointments)
}

func (h *Handler) StreamAppointments(c *gin.Context) {
	sub, err := h.service.Subscribe(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.Stream(c, sub, "appointments")
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if !handler.Bind(c, &req) {
		return
	}

	appointment, err := h.service.Update(c.Request.Context(), middleware.OwnerID(c), c.Param("id"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, appointment)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.OwnerID(c), c.Param("id")); err != nil {
		handler.Fail(c, err)
		return
	}
	handler.NoContent(c)
}

// Calendar serves the month grid for ?month=YYYY-MM, optionally moved by
// ?nav=next|prev|today. With ?stream=true the grid is pushed again after
// every appointment change.
func (h *Handler) Calendar(c *gin.Context) {
	ref, err := h.reference(c.Query("month"), c.Query("nav"))
	if err != nil {
		handler.Fail(c, err)
		return
	}

	weekStart := h.service.WeekStart()
	if ws := c.Query("week_start"); ws != "" {
		if weekStart, err = calendar.ParseWeekday(ws); err != nil {
			handler.Fail(c, apperrors.NewValidation("week_start", err.Error()))
			return
		}
	}

	ownerID := middleware.OwnerID(c)
	if handler.Wants(c) {
		sub, err := h.service.CalendarSubscription(c.Request.Context(), ownerID, ref, weekStart)
		if err != nil {
			handler.Fail(c, err)
			return
		}
		handler.Stream(c, sub, "calendar")
		return
	}

	grid, err := h.service.Calendar(c.Request.Context(), ownerID, ref, weekStart)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, grid)
}

func (h *Handler) Agenda(c *gin.Context) {
	day := h.service.Today()
	if v := c.Query("date"); v != "" {
		d, ok := calendar.ParseDate(v)
		if !ok {
			handler.Fail(c, apperrors.NewValidation("date", "date must be yyyy-MM-dd or dd/MM/yyyy"))
			return
		}
		day = calendar.KeyOf(d).Date(h.service.Location())
	}

	agenda, err := h.service.Agenda(c.Request.Context(), middleware.OwnerID(c), day)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	handler.OK(c, gin.H{
		"date":         day.Format(model.LayoutISODate),
		"appointments": agenda,
	})
}

func (h *Handler) reference(month, nav string) (time.Time, error) {
	ref := h.service.Today()
	if month != "" {
		m, err := time.ParseInLocation("2006-01", month, h.service.Location())
		if err != nil {
			return time.Time{}, apperrors.NewValidation("month", "month must be yyyy-MM")
		}
		ref = m
	}

	switch nav {
	case "":
		return ref, nil
	case "next":
		return calendar.NextMonth(ref), nil
	case "prev":
		return calendar.PrevMonth(ref), nil
	case "today":
		return h.service.Today(), nil
	default:
		return time.Time{}, apperrors.NewValidation("nav", "nav must be one of: next prev today")
	}
}
