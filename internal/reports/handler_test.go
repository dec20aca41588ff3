package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animalrescue/rescue-connect/internal/httpx"
	"github.com/animalrescue/rescue-connect/internal/identity"
	"github.com/animalrescue/rescue-connect/internal/triage"
)

func newTestRouter(f *fixture) http.Handler {
	r := chi.NewRouter()
	r.Use(identity.Middleware)
	RegisterRoutes(r, NewHandler(f.svc), httpx.RateLimit(0, 100))
	return r
}

func do(t *testing.T, h http.Handler, method, path, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(identity.HeaderUserID, "USR-"+role)
		req.Header.Set(identity.HeaderEmail, role+"@example.com")
		req.Header.Set(identity.HeaderRole, role)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const puppyJSON = `{
	"conditionReport": "Small puppy, appears very weak and shivering",
	"locationDetails": "Near bus stop on Oak Avenue",
	"reporterContact": "jane.doe@example.com"
}`

func TestHandleSubmit(t *testing.T) {
	f := newFixture(triage.Verdict{NeedsHumanAttention: true, Reason: "shivering puppy, high risk"})
	h := newTestRouter(f)

	rec := do(t, h, http.MethodPost, "/api/reports", "user", puppyJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var rep Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "USR-user", rep.UserID)
	assert.Equal(t, "jane.doe@example.com", rep.UserContact)
	assert.True(t, rep.NeedsHumanAttention)
	assert.Equal(t, StatusReported, rep.Status)
}

func TestHandleSubmit_Errors(t *testing.T) {
	tests := []struct {
		name   string
		clsErr error
		body   string
		role   string
		want   int
		fields []string
	}{
		{"anonymous", nil, puppyJSON, "", http.StatusUnauthorized, nil},
		{"bad json", nil, `{`, "user", http.StatusBadRequest, nil},
		// the caller's email fills the contact; location is still missing
		{"missing fields", nil, `{"conditionReport":"weak dog"}`, "user", http.StatusBadRequest, []string{"locationDetails"}},
		{"backend down", &triage.BackendUnavailableError{Err: errors.New("refused")}, puppyJSON, "user", http.StatusServiceUnavailable, nil},
		{"bad reply", &triage.SchemaValidationError{Reason: "missing reason"}, puppyJSON, "user", http.StatusBadGateway, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(triage.Verdict{NeedsHumanAttention: true, Reason: "x"})
			f.cls.err = tt.clsErr
			rec := do(t, newTestRouter(f), http.MethodPost, "/api/reports", tt.role, tt.body)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.fields != nil {
				var body httpx.ErrorBody
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.fields, body.Fields)
			}
			assert.Empty(t, f.repo.items)
		})
	}
}

func TestHandleTriage(t *testing.T) {
	f := newFixture(triage.Verdict{NeedsHumanAttention: true, Reason: "shivering puppy, high risk"})

	rec := do(t, newTestRouter(f), http.MethodPost, "/api/triage", "user", puppyJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"needsHumanAttention":true,"reason":"shivering puppy, high risk"}`, rec.Body.String())
	assert.Empty(t, f.repo.items, "triage alone persists nothing")
}

func TestBoardAndStatusRoutes(t *testing.T) {
	f := newFixture(triage.Verdict{NeedsHumanAttention: true, Reason: "urgent"})
	h := newTestRouter(f)

	rec := do(t, h, http.MethodPost, "/api/reports", "user", puppyJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	var rep Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))

	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/reports/board", "user", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/reports/board", "hospital", "").Code)

	rec = do(t, h, http.MethodGet, "/api/reports/board", "ngo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var board Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	require.Len(t, board.Urgent, 1)
	assert.Empty(t, board.New)
	assert.Empty(t, board.Closed)

	rec = do(t, h, http.MethodPatch, "/api/reports/"+rep.ID+"/status", "ngo", `{"status":"Rescued"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/reports/"+rep.ID+"/status", "ngo", `{"status":"Lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/reports/"+rep.ID, "hospital", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, StatusRescued, rep.Status)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/reports/missing", "ngo", "").Code)

	rec = do(t, h, http.MethodGet, "/api/reports/mine", "user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	rec = do(t, h, http.MethodGet, "/api/reports", "ngo", "")
	require.Equal(t, http.StatusOK, rec.Code)
}
