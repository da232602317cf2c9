package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/geofield-backend-go/internal/database"
	"github.com/jengzang/geofield-backend-go/internal/engine"
	"github.com/jengzang/geofield-backend-go/internal/repository"
	"github.com/jengzang/geofield-backend-go/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ws := service.NewWorkspace(engine.DefaultConfig())
	records := service.NewRecordService(ws, repository.NewSQLiteRecordRepository(db))
	return SetupRouter(Services{
		Records:      records,
		Layers:       service.NewLayerService(ws, repository.NewSQLiteLayerRepository(db)),
		Measurements: service.NewMeasurementService(ws, records),
		Analysis:     service.NewAnalysisService(ws),
		Workspace:    ws,
	}, RouterOptions{})
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "application/msgpack" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func TestHealth(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestHeatmapFlow(t *testing.T) {
	r := newRouter(t)

	for _, rec := range []map[string]any{
		{"label": "Pirit-1", "strike": 35, "dip": 20, "coordinate": map[string]any{"lat": 39.0, "lon": 32.0}},
		{"label": "Galen-2", "strike": 120, "dip": 45, "coordinate": map[string]any{"lat": 39.1, "lon": 32.1}},
	} {
		status, env := do(t, r, http.MethodPost, "/api/v1/records", rec)
		require.Equal(t, http.StatusCreated, status, env.Message)
	}

	status, env := do(t, r, http.MethodPut, "/api/v1/analysis/filter", map[string]string{"filter": "fe"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"filter":"FE"}`, string(env.Data))

	status, env = do(t, r, http.MethodGet, "/api/v1/analysis/heatmap?zoom=10&lat=39", nil)
	require.Equal(t, http.StatusOK, status)
	var hm struct {
		Points []struct{ Lat, Lon, Weight float64 } `json:"points"`
		Count  int                                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hm))
	require.Equal(t, 1, hm.Count)
	assert.Equal(t, 39.0, hm.Points[0].Lat)
	assert.Equal(t, 32.0, hm.Points[0].Lon)
	assert.Equal(t, 1.0, hm.Points[0].Weight)

	status, env = do(t, r, http.MethodPut, "/api/v1/analysis/filter", map[string]string{"filter": "kryptonite"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNKNOWN_TAG", env.Error)
}

func TestRecordErrors(t *testing.T) {
	r := newRouter(t)

	status, env := do(t, r, http.MethodPost, "/api/v1/records",
		map[string]any{"label": "x", "coordinate": map[string]any{"lat": 91.0, "lon": 0.0}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_COORDINATE", env.Error)

	status, env = do(t, r, http.MethodPost, "/api/v1/records",
		map[string]any{"label": "x", "dip": 120, "coordinate": map[string]any{"lat": 1.0, "lon": 1.0}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_RECORD", env.Error)

	status, env = do(t, r, http.MethodGet, "/api/v1/records/42", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)

	status, _ = do(t, r, http.MethodGet, "/api/v1/records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, r, http.MethodGet, "/api/v1/records/export?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "UNSUPPORTED_FORMAT", env.Error)
}

func TestGridEndpoint(t *testing.T) {
	r := newRouter(t)
	boundary := [][]float64{{32, 39}, {32.05, 39}, {32.05, 39.05}, {32, 39.05}, {32, 39}}

	status, env := do(t, r, http.MethodPost, "/api/v1/analysis/grid",
		map[string]any{"boundary": boundary, "spacing": 1000, "color": "#00ff00"})
	require.Equal(t, http.StatusOK, status, env.Message)
	var g struct {
		Lines []json.RawMessage `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &g))
	assert.NotEmpty(t, g.Lines)

	status, env = do(t, r, http.MethodPost, "/api/v1/analysis/grid",
		map[string]any{"boundary": boundary, "spacing": -5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_SPACING", env.Error)

	status, env = do(t, r, http.MethodPost, "/api/v1/analysis/grid",
		map[string]any{"boundary": [][]float64{{32, 39}, {32.1, 39}}, "spacing": 1000})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BOUNDARY", env.Error)
}

func TestMeasurementFlow(t *testing.T) {
	r := newRouter(t)

	status, env := do(t, r, http.MethodPost, "/api/v1/measurements", map[string]string{"mode": "polygon"})
	require.Equal(t, http.StatusCreated, status)
	var view struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	base := "/api/v1/measurements/" + view.ID

	for _, p := range []map[string]float64{
		{"lat": 39, "lon": 32}, {"lat": 39, "lon": 32.00129}, {"lat": 39.001, "lon": 32.00129},
		{"lat": 39.001, "lon": 32}, {"lat": 39.00001, "lon": 32.00001},
	} {
		status, env = do(t, r, http.MethodPost, base+"/vertices", p)
		require.Equal(t, http.StatusOK, status, env.Message)
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "closed", view.State)

	status, env = do(t, r, http.MethodPost, base+"/vertices", map[string]float64{"lat": 39.5, "lon": 32.5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ALREADY_CLOSED", env.Error)

	status, env = do(t, r, http.MethodPost, base+"/finish", map[string]any{"label": "Zone"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var rec struct {
		ID           int64             `json:"id"`
		GeometryKind string            `json:"geometryKind"`
		Geometry     []json.RawMessage `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "polygon", rec.GeometryKind)
	assert.Len(t, rec.Geometry, 4)

	status, _ = do(t, r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestToolsEndpoints(t *testing.T) {
	r := newRouter(t)

	status, env := do(t, r, http.MethodGet, "/api/v1/tools/strike?heading=325&dip=40", nil)
	require.Equal(t, http.StatusOK, status)
	var strike map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &strike))
	assert.Equal(t, "N35W", strike["text"])
	assert.Equal(t, "N35W/40", strike["attitude"])

	status, env = do(t, r, http.MethodGet, "/api/v1/tools/strike?text=N35W&beta=30&gamma=0", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &strike))
	assert.Equal(t, "N35W/30", strike["attitude"])
	assert.InDelta(t, 30, strike["dip"], 1e-9)

	status, env = do(t, r, http.MethodGet, "/api/v1/tools/destination?lat=39&lon=32&bearing=0&distance=1000", nil)
	require.Equal(t, http.StatusOK, status)
	var dest struct {
		Point struct{ Lat, Lon float64 }
	}
	require.NoError(t, json.Unmarshal(env.Data, &dest))
	assert.InDelta(t, 39.008993, dest.Point.Lat, 1e-5)
	assert.InDelta(t, 32, dest.Point.Lon, 1e-9)

	status, env = do(t, r, http.MethodGet, "/api/v1/tools/destination?lat=99&lon=32&distance=10", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_COORDINATE", env.Error)

	status, env = do(t, r, http.MethodPost, "/api/v1/tools/tags", map[string]string{"text": "Altın, gümüş ve galen"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tags":["AG","AU","PB"]}`, string(env.Data))

	status, env = do(t, r, http.MethodGet, "/api/v1/tools/project?lat=39&lon=32", nil)
	require.Equal(t, http.StatusOK, status)
	var p struct {
		Easting, Northing float64
		Zone              int
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 36, p.Zone)

	status, env = do(t, r, http.MethodGet, "/api/v1/tools/project?lat=95&lon=32", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_COORDINATE", env.Error)

	status, env = do(t, r, http.MethodGet, "/api/v1/tools/unproject?easting=500000&northing=0&zone=61", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_COORDINATE", env.Error)
}

func TestLayerEndpoints(t *testing.T) {
	r := newRouter(t)
	status, env := do(t, r, http.MethodPost, "/api/v1/layers", map[string]any{
		"name": "Survey",
		"geojson": map[string]any{
			"type": "FeatureCollection",
			"features": []any{map[string]any{
				"type":       "Feature",
				"geometry":   map[string]any{"type": "Point", "coordinates": []float64{32.5, 39.5}},
				"properties": map[string]any{"name": "Pirit"},
			}},
		},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var summary struct {
		ID      string   `json:"id"`
		Visible bool     `json:"visible"`
		Tags    []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.True(t, summary.Visible)
	assert.Equal(t, []string{"FE"}, summary.Tags)

	status, _ = do(t, r, http.MethodPut, "/api/v1/layers/"+summary.ID+"/visibility", map[string]bool{"visible": false})
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, r, http.MethodGet, "/api/v1/analysis/tags", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"tags":[]}`, string(env.Data))

	status, env = do(t, r, http.MethodPost, "/api/v1/layers", map[string]any{"geojson": map[string]any{"type": "Bogus"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_GEOJSON", env.Error)

	status, _ = do(t, r, http.MethodDelete, "/api/v1/layers/"+summary.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, r, http.MethodDelete, "/api/v1/layers/"+summary.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
