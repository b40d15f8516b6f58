package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angeloac12/siigo-cotizador/internal/api"
	"github.com/Angeloac12/siigo-cotizador/internal/domain"
	"github.com/Angeloac12/siigo-cotizador/internal/drafts"
	"github.com/Angeloac12/siigo-cotizador/internal/service"
)

type stubStore struct {
	draft *domain.Draft
	items []domain.DraftItem
}

func (s *stubStore) Create(_ context.Context, draft *domain.Draft, items []domain.DraftItem) error {
	s.draft = draft
	s.items = items
	return nil
}

func (s *stubStore) GetByID(context.Context, string, uuid.UUID) (*domain.Draft, []domain.DraftItem, error) {
	if s.draft == nil {
		return nil, nil, drafts.ErrNotFound
	}
	return s.draft, s.items, nil
}

func (s *stubStore) ReplaceItems(context.Context, string, uuid.UUID, []domain.DraftItem) error {
	return nil
}

func (s *stubStore) Commit(context.Context, string, uuid.UUID) error {
	return drafts.ErrCommitted
}

func newTestRouter(t *testing.T, store *stubStore, apiKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	draftSvc := service.NewDraftService(store, nil, nil, nil)
	handler := api.NewHandler(draftSvc, nil, nil, nil, nil, nil, 200, nil)
	return api.SetupRouter(handler, api.RouterOptions{APIKey: apiKey})
}

func doJSON(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestParseEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "")

	w := doJSON(router, http.MethodPost, "/v1/parse", gin.H{
		"text": "10 mts cable #8\nBreaker 20A x 4",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var result domain.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Len(t, result.Items, 2)
	assert.Equal(t, "cable #8", result.Items[0].Description)
	assert.Equal(t, domain.UOMMeter, result.Items[0].UOM)
	assert.InDelta(t, 4, result.Items[1].Quantity, 0.001)
}

func TestParseEndpointRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "")

	w := doJSON(router, http.MethodPost, "/v1/parse", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyEnforced(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "sekret")

	w := doJSON(router, http.MethodPost, "/v1/parse", gin.H{"text": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/v1/parse", gin.H{"text": "x"},
		map[string]string{api.HeaderAPIKey: "sekret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthIsOpen(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "sekret")

	w := doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCorrelationIDEcho(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "")

	w := doJSON(router, http.MethodGet, "/health", nil,
		map[string]string{api.HeaderCorrelationID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(api.HeaderCorrelationID))

	w = doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.NotEmpty(t, w.Header().Get(api.HeaderCorrelationID))
}

func TestGetDraftBadID(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "")

	w := doJSON(router, http.MethodGet, "/v1/drafts/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDraftNotFound(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, "")

	w := doJSON(router, http.MethodGet, "/v1/drafts/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestCommitConflict(t *testing.T) {
	store := &stubStore{draft: &domain.Draft{ID: uuid.New(), Status: domain.DraftStatusCommitted}}
	router := newTestRouter(t, store, "")

	w := doJSON(router, http.MethodPost, "/v1/drafts/"+uuid.NewString()+"/commit", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateDraft(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(t, store, "")

	w := doJSON(router, http.MethodPost, "/v1/drafts", gin.H{
		"text": "2 rollos cinta aislante",
	}, map[string]string{"X-Org-ID": "org-9"})

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.draft)
	assert.Equal(t, "org-9", store.draft.OrgID)
	assert.Equal(t, "siigo", store.draft.Provider)
	require.Len(t, store.items, 1)
	assert.Equal(t, domain.UOMRoll, store.items[0].UOM)
}
