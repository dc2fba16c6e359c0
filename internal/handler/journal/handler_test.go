package journal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/model"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
)

type fakeService struct {
	owners []string
}

func (f *fakeService) Create(_ context.Context, ownerID string, req model.JournalEntryRequest) (*model.JournalEntry, error) {
	f.owners = append(f.owners, ownerID)
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperrors.NewValidation("body", "body is required")
	}
	e := &model.JournalEntry{Title: req.Title, Body: req.Body}
	e.ID = "j1"
	return e, nil
}

func (f *fakeService) Get(context.Context, string, string) (*model.JournalEntry, error) {
	return nil, apperrors.NewNotFound("journal entry", nil)
}

func (f *fakeService) Update(context.Context, string, string, model.UpdateJournalEntryRequest) (*model.JournalEntry, error) {
	return &model.JournalEntry{}, nil
}

func (f *fakeService) Delete(context.Context, string, string) error { return nil }

func (f *fakeService) List(context.Context, string) ([]model.JournalEntry, error) {
	return []model.JournalEntry{}, nil
}

func (f *fakeService) Subscribe(context.Context, string) (*feed.Subscription[[]model.JournalEntry], error) {
	return nil, apperrors.NewInternal(nil)
}

func TestJournalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{}
	engine := gin.New()
	engine.Use(middleware.ErrorHandler(), func(c *gin.Context) {
		c.Set(middleware.ContextOwnerID, "owner-9")
	})
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	w := do(http.MethodPost, "/api/v1/journal", `{"title":"Martes","body":"Buen día de consultas."}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"owner-9"}, svc.owners)

	w = do(http.MethodPost, "/api/v1/journal", `{"body":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/v1/journal", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/journal/j2", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPatch, "/api/v1/journal/j1", `{"title":"Miércoles"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/api/v1/journal/j1", "").Code)
}
