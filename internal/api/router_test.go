package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/melody-api/internal/config"
	"github.com/Conceptual-Machines/melody-api/internal/database"
	"github.com/Conceptual-Machines/melody-api/internal/models"
	"github.com/Conceptual-Machines/melody-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T, authMode string) (*gin.Engine, *services.ChordStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("sqlite://file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := services.NewChordStore(db)
	cfg := &config.Config{AuthMode: authMode, MelodyModel: "gpt-5-mini"}
	router := SetupRouter(db, cfg, "test", Services{
		Tabs:     services.NewTabService(store, nil),
		Sections: store,
	})
	return router, store
}

func request(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router, _ := setupTestRouter(t, "none")

	w := request(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"connected"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(t, router, http.MethodGet, "/api/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"melody_model":"gpt-5-mini"`)
	assert.Contains(t, w.Body.String(), `"api_requests":1`)
}

func TestRouter_IngestAndReadSections(t *testing.T) {
	router, store := setupTestRouter(t, "none")

	song, err := store.EnsureSong(t.Context(), "Oasis", "Wonderwall")
	require.NoError(t, err)

	tab := models.Tab{
		Artist:   "Oasis",
		Track:    "Wonderwall",
		Tonality: "F#m",
		Capo:     2,
		Sections: []models.TabSection{
			{Name: "Verse", Chords: []string{"Em7", "G", "Dsus4", "A7sus4"}},
			{Name: "Chorus", Chords: []string{"C", "D", "Em"}},
		},
	}
	w := request(t, router, http.MethodPost, "/api/v1/tabs", tab, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ingested models.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingested))
	assert.Equal(t, song.ID, ingested.SongID)
	assert.Equal(t, "F# minor", ingested.Key)

	w = request(t, router, http.MethodGet, "/api/v1/songs/"+uintString(song.ID)+"/sections", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sections []models.SongChordSection `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sections, 2)
	assert.Equal(t, []string{"F#m7", "A", "Esus4", "B7sus4"}, body.Sections[0].Original)
	assert.Equal(t, []string{"i7", "III", "VIIsus4", "IV7sus4"}, body.Sections[0].Roman)
	assert.Equal(t, "F#m", body.Sections[0].Tonality)
}

func TestRouter_UnknownSong(t *testing.T) {
	router, _ := setupTestRouter(t, "none")

	w := request(t, router, http.MethodPost, "/api/v1/tabs", models.Tab{
		Artist:   "Nobody",
		Track:    "Nothing",
		Sections: []models.TabSection{{Name: "Verse", Chords: []string{"C"}}},
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MelodyUnconfigured(t *testing.T) {
	router, _ := setupTestRouter(t, "none")

	w := request(t, router, http.MethodPost, "/api/v1/melody/search", models.MelodySearchRequest{Chords: "C G", BPM: 90}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_GatewayAuth(t *testing.T) {
	router, _ := setupTestRouter(t, "gateway")
	body := models.ConvertRequest{Chords: "D Bm G A"}

	w := request(t, router, http.MethodPost, "/api/v1/progressions/convert", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, router, http.MethodPost, "/api/v1/progressions/convert", body, map[string]string{"X-User-ID": "7"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"I", "vi", "IV", "V"}, resp.RomanNumerals)

	w = request(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, "health stays public")
}

func uintString(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
