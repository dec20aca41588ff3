package treatments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/animalrescue/rescue-connect/internal/identity"
)

type memRepo struct {
	items map[string]Treatment
}

func (m *memRepo) Save(_ context.Context, t *Treatment) error {
	m.items[t.ID] = *t
	return nil
}

func (m *memRepo) List(context.Context) ([]Treatment, error) {
	out := []Treatment{}
	for _, t := range m.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AdmissionDate.After(out[j].AdmissionDate) })
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id string) (*Treatment, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	t, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	t.Status = status
	m.items[id] = t
	return nil
}

func newTestService() (*service, *memRepo) {
	repo := &memRepo{items: map[string]Treatment{}}
	svc := NewService(repo, zap.NewNop()).(*service)

	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	svc.newID = func() string {
		n++
		return "TRT00" + string(rune('0'+n))
	}
	return svc, repo
}

func TestAdmit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tr, err := svc.Admit(ctx, AdmitCommand{ReportID: "REP003", AnimalType: "Bird", Condition: "Broken wing"})
	require.NoError(t, err)
	assert.Equal(t, "TRT001", tr.ID)
	assert.Equal(t, StatusAdmitted, tr.Status)

	_, err = svc.Admit(ctx, AdmitCommand{AnimalType: "Dog"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"reportId", "condition"}, ve.Fields)

	tr2, err := svc.Admit(ctx, AdmitCommand{ReportID: "REP004", Condition: "Malnutrition, Dehydration"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", tr2.AnimalType)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, tr2.ID, list[0].ID, "newest admission first")
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	tr, _ := svc.Admit(ctx, AdmitCommand{ReportID: "REP003", Condition: "Broken wing"})

	got, err := svc.UpdateStatus(ctx, tr.ID, StatusUnderTreatment)
	require.NoError(t, err)
	assert.Equal(t, StatusUnderTreatment, got.Status)

	_, err = svc.UpdateStatus(ctx, tr.ID, "Discharged")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, "TRT999", StatusReleased)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoutes(t *testing.T) {
	svc, _ := newTestService()
	r := chi.NewRouter()
	r.Use(identity.Middleware)
	RegisterRoutes(r, NewHandler(svc))

	call := func(method, path, role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if role != "" {
			req.Header.Set(identity.HeaderUserID, "H1")
			req.Header.Set(identity.HeaderRole, role)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/api/treatments", "", "").Code)
	assert.Equal(t, http.StatusForbidden, call(http.MethodGet, "/api/treatments", "ngo", "").Code)

	rec := call(http.MethodPost, "/api/treatments", "hospital", `{"reportId":"REP003","animalType":"Bird","condition":"Broken wing"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tr Treatment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))

	assert.Equal(t, http.StatusBadRequest, call(http.MethodPost, "/api/treatments", "hospital", `{"animalType":"Bird"}`).Code)

	rec = call(http.MethodPatch, "/api/treatments/"+tr.ID+"/status", "hospital", `{"status":"Recovered"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, StatusRecovered, tr.Status)

	assert.Equal(t, http.StatusNotFound, call(http.MethodPatch, "/api/treatments/nope/status", "hospital", `{"status":"Released"}`).Code)

	rec = call(http.MethodGet, "/api/treatments", "hospital", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Treatment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}
