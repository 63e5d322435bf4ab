package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/notegen-api/internal/config"
	"github.com/Conceptual-Machines/notegen-api/internal/domain"
	"github.com/Conceptual-Machines/notegen-api/internal/metrics"
	"github.com/Conceptual-Machines/notegen-api/internal/models"
	"github.com/Conceptual-Machines/notegen-api/internal/presets"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
	"github.com/Conceptual-Machines/notegen-api/internal/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testAPI struct {
	router *gin.Engine
	store  *store.Store
	token  string
}

// newTestAPI builds the full router over a memory store seeded with the
// preset catalog and a registered user, and logs that user in.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	st := store.NewMemory()
	catalog, err := presets.All()
	require.NoError(t, err)
	ctx := context.Background()
	for _, p := range catalog.Progressions {
		_, err := st.ChordProgressions.Create(ctx, p)
		require.NoError(t, err)
	}
	for _, p := range catalog.NotePatterns {
		_, err := st.NotePatterns.Create(ctx, p)
		require.NoError(t, err)
	}
	for _, p := range catalog.RhythmPatterns {
		_, err := st.RhythmPatterns.Create(ctx, p)
		require.NoError(t, err)
	}

	cfg := &config.Config{
		Environment: "test",
		JWTSecret:   "test-secret",
	}
	router := SetupRouter(nil, st, cfg, new(metrics.Client), "test")

	a := &testAPI{router: router, store: st}
	a.token = a.register(t, "player@example.com", "correct horse battery")
	return a
}

func (a *testAPI) register(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": password,
		"name":     "Player One",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)

	// Wrong password
	w := a.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "player@example.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct login
	w = a.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "player@example.com",
		"password": "correct horse battery",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Profile with the issued token
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	w = a.do(t, http.MethodGet, "/api/v1/users/me", nil, resp.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "player@example.com")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/api/v1/chord-progressions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProgressionCRUD(t *testing.T) {
	a := newTestAPI(t)

	body := map[string]any{
		"name":       "Test Cadence",
		"key":        "C",
		"scale_type": "MAJOR",
		"items": []map[string]any{
			{"chord": map[string]any{"root": "C", "quality": "MAJOR"}, "duration": 2.0, "position": 0.0},
			{"chord": map[string]any{"root": "G", "quality": "DOMINANT_SEVENTH"}, "duration": 2.0, "position": 2.0},
		},
	}

	w := a.do(t, http.MethodPost, "/api/v1/chord-progressions", body, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.ChordProgression
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Duplicate name conflicts
	w = a.do(t, http.MethodPost, "/api/v1/chord-progressions", body, a.token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Fetch by name
	w = a.do(t, http.MethodGet, "/api/v1/chord-progressions/by-name/Test%20Cadence", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)

	// Fetch by id, then delete
	path := fmt.Sprintf("/api/v1/chord-progressions/%s", created.ID)
	w = a.do(t, http.MethodGet, path, nil, a.token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodDelete, path, nil, a.token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, path, nil, a.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressionCreateInvalidKey(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/chord-progressions", map[string]any{
		"name":       "Broken",
		"key":        "H",
		"scale_type": "MAJOR",
	}, a.token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSequenceGenerate(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/sequences/generate", map[string]any{
		"progression_name":    "I-IV-V",
		"note_pattern_name":   "Simple Triad",
		"rhythm_pattern_name": "basic_4_4",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var seq domain.NoteSequence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &seq))
	assert.NotEmpty(t, seq.Notes)
	assert.Equal(t, "I-IV-V", seq.ProgressionName)

	// Persisted
	w = a.do(t, http.MethodGet, "/api/v1/sequences", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "I-IV-V")
}

func TestSequenceGenerateMissingPattern(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/sequences/generate", map[string]any{
		"progression_name":    "I-IV-V",
		"note_pattern_name":   "No Such Pattern",
		"rhythm_pattern_name": "basic_4_4",
	}, a.token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "No Such Pattern")
}

func TestValidateEndpointAlways200(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/validate/note-sequence?level=normal", map[string]any{
		"notes":    []map[string]any{{"duration": 1.0}},
		"duration": 2.0,
	}, a.token)
	require.Equal(t, http.StatusOK, w.Code)

	var result validation.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Violations)
	assert.Equal(t, validation.CodeDurationMismatch, result.Violations[0].Code)
}

func TestValidateEndpointBadLevel(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/validate/note-pattern?level=extreme", map[string]any{}, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportAttachment(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/api/v1/export/chord-progressions?format=csv", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "chord_progressions.csv")
	assert.Contains(t, w.Body.String(), "name,key,scale_type,chords,description")
}

func TestImportUpload(t *testing.T) {
	a := newTestAPI(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "progressions.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("name,key,scale_type,chords,description\nUploaded Walk,C,MAJOR,C Am F G,imported\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/chord-progressions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":1`)

	_, err = a.store.ChordProgressions.GetByName(context.Background(), "Uploaded Walk")
	assert.NoError(t, err)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/api/admin/users", nil, a.token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Create an admin account directly in the store
	admin := models.User{Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin}
	require.NoError(t, admin.HashPassword("correct horse battery"))
	require.NoError(t, a.store.Users.Create(context.Background(), &admin))

	adminToken := a.login(t, "admin@example.com", "correct horse battery")
	w = a.do(t, http.MethodGet, "/api/admin/users", nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}
