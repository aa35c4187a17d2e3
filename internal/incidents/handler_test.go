package incidents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/junior231/incident-hub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository) *chi.Mux {
	handler := NewHandler(NewService(repo))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := doRequest(t, router, http.MethodPost, "/incidents", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIncident_MissingTitle(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := doRequest(t, router, http.MethodPost, "/incidents", `{"severity": 2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIncident_WhitespaceTitle(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := doRequest(t, router, http.MethodPost, "/incidents", `{"title": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateIncident_ReturnsGeneratedID(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodPost, "/incidents", `{"title": "Disk full", "severity": 3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	stored, ok := repo.incidents[created.ID]
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, stored.Severity)
	assert.Equal(t, domain.StatusOpen, stored.Status)
}

func TestGetIncident_MalformedID(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := doRequest(t, router, http.MethodGet, "/incidents/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetIncident_UnknownID(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := doRequest(t, router, http.MethodGet, "/incidents/6b1a0be7-5f1c-4444-9d9b-0a63e1f0c0de", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateIncident_UnknownID(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := doRequest(t, router, http.MethodPut, "/incidents/6b1a0be7-5f1c-4444-9d9b-0a63e1f0c0de", `{"status": 2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateIncident_InvalidStatus(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodPost, "/incidents", `{"title": "Disk full"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(t, router, http.MethodPut, "/incidents/"+created.ID, `{"status": 9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteIncident_NoContent(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodPost, "/incidents", `{"title": "Disk full"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(t, router, http.MethodDelete, "/incidents/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doRequest(t, router, http.MethodDelete, "/incidents/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListIncidents_EnvelopeAndClamping(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	rec := doRequest(t, router, http.MethodPost, "/incidents", `{"title": "Disk full"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/incidents?page=0&pageSize=500", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result ListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	assert.Len(t, result.Items, 1)
}
