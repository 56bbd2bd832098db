package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(provider *Provider) *mux.Router {
	router := mux.NewRouter()
	NewHandler(provider).Register(router.PathPrefix("/journals").Subrouter())
	return router
}

func TestHandlerUpdateAndGet(t *testing.T) {
	provider := NewProvider(newMemoryStore(), testDefaults)
	router := newTestRouter(provider)

	body := `{"enabled":true,"sandbox":false,"email":"editor@example.org","password":"secret","url":"https://live.example.org/v2","sandbox_url":"https://sandbox.example.org/v2"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/journals/oas/settings", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/journals/oas/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Settings settingsView `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.True(t, decoded.Settings.Enabled)
	assert.True(t, decoded.Settings.HasPassword)
	assert.Equal(t, "https://live.example.org/v2", decoded.Settings.URL)
}

func TestHandlerUpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(newMemoryStore(), testDefaults)
	require.NoError(t, provider.Set(ctx, "oas", KeyPassword, "stored"))
	router := newTestRouter(provider)

	body := `{"enabled":true,"email":"editor@example.org","url":"https://live.example.org/v2","sandbox_url":"https://sandbox.example.org/v2"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/journals/oas/settings", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	loaded, err := provider.Load(ctx, "oas")
	require.NoError(t, err)
	assert.Equal(t, "stored", loaded.Password)
}

func TestHandlerUpdateValidation(t *testing.T) {
	router := newTestRouter(NewProvider(newMemoryStore(), testDefaults))

	for _, body := range []string{
		`not json`,
		`{"email":"","url":"u","sandbox_url":"s","password":"p"}`,
		`{"email":"e","url":"u","sandbox_url":"s"}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/journals/oas/settings", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandlerInstall(t *testing.T) {
	router := newTestRouter(NewProvider(newMemoryStore(), testDefaults))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/journals/oas/settings/install", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/journals/oas/settings/install", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
