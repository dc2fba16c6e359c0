package patient

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
	patients map[string]*model.Patient
	updates  []model.UpdatePatientRequest
}

func (f *fakeService) Create(_ context.Context, ownerID string, req model.CreatePatientRequest) (*model.Patient, error) {
	if req.Name == "" {
		return nil, apperrors.NewValidation("name", "name is required")
	}
	p := &model.Patient{Name: req.Name, Phone: req.Phone}
	p.ID, p.OwnerID = "p-new", ownerID
	f.patients[p.ID] = p
	return p, nil
}

func (f *fakeService) Get(_ context.Context, _, id string) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	return p, nil
}

func (f *fakeService) Update(ctx context.Context, ownerID, id string, req model.UpdatePatientRequest) (*model.Patient, error) {
	f.updates = append(f.updates, req)
	return f.Get(ctx, ownerID, id)
}

func (f *fakeService) Delete(_ context.Context, _, id string) error {
	if _, ok := f.patients[id]; !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	delete(f.patients, id)
	return nil
}

func (f *fakeService) List(context.Context, string) ([]model.Patient, error) {
	out := []model.Patient{}
	for _, p := range f.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeService) Subscribe(context.Context, string) (*feed.Subscription[[]model.Patient], error) {
	return nil, apperrors.NewInternal(nil)
}

func (f *fakeService) Contact(ctx context.Context, ownerID, id string) (*model.ContactLink, error) {
	p, err := f.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &model.ContactLink{PatientID: id, Phone: p.Phone, URL: "https://wa.me/5491155550000"}, nil
}

func setup() (*gin.Engine, *fakeService) {
	gin.SetMode(gin.TestMode)
	ana := &model.Patient{Name: "Ana", Phone: "+54 9 11 5555-0000"}
	ana.ID = "p1"
	svc := &fakeService{patients: map[string]*model.Patient{"p1": ana}}

	engine := gin.New()
	engine.Use(middleware.ErrorHandler(), func(c *gin.Context) {
		c.Set(middleware.ContextOwnerID, "owner-1")
	})
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine, svc
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestCreatePatient(t *testing.T) {
	engine, _ := setup()

	w := do(engine, http.MethodPost, "/api/v1/patients", `{"name":"Bruno","birth_date":"01/02/1990"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"owner_id":"owner-1"`)

	w = do(engine, http.MethodPost, "/api/v1/patients", `{"phone":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"name"`)
}

func TestUpdatePatientPassesPatch(t *testing.T) {
	engine, svc := setup()

	w := do(engine, http.MethodPatch, "/api/v1/patients/p1", `{"name":"Ana María"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.updates, 1)
	require.NotNil(t, svc.updates[0].Name)
	assert.Equal(t, "Ana María", *svc.updates[0].Name)
	assert.Nil(t, svc.updates[0].Phone)
}

func TestContactAndDelete(t *testing.T) {
	engine, _ := setup()

	w := do(engine, http.MethodGet, "/api/v1/patients/p1/contact", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://wa.me/5491155550000")

	assert.Equal(t, http.StatusNoContent, do(engine, http.MethodDelete, "/api/v1/patients/p1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/api/v1/patients/p1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodDelete, "/api/v1/patients/p1", "").Code)
}

func TestStreamFailureIsRendered(t *testing.T) {
	engine, _ := setup()

	w := do(engine, http.MethodGet, "/api/v1/patients/stream", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
