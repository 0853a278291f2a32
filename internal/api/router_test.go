package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/oovl/internal/config"
	"github.com/MikeSquared-Agency/oovl/internal/hermes"
	"github.com/MikeSquared-Agency/oovl/internal/metrics"
	"github.com/MikeSquared-Agency/oovl/internal/scoring"
	"github.com/MikeSquared-Agency/oovl/internal/session"
	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

type mockHermes struct {
	mu       sync.Mutex
	subjects []string
	payloads []interface{}
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	m.payloads = append(m.payloads, data)
	return nil
}
func (m *mockHermes) Close() {}

type testEnv struct {
	router  http.Handler
	manager *session.Manager
	hermes  *mockHermes
	metrics *metrics.Metrics
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	cfg.Server.AdminToken = "test-token"
	cfg.Server.RateLimitPerMinute = 0

	h := &mockHermes{}
	m := metrics.New(prometheus.NewRegistry())
	mgr := session.NewManager(h, m, cfg, logger)
	router := NewRouter(mgr, scoring.NewScorer(logger), h, m, cfg, logger)
	return &testEnv{router: router, manager: mgr, hermes: h, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, "POST", "/api/v1/sessions", `{"region":"EU","age":40,"name":"Ana"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return "/api/v1/sessions/" + resp.SessionID.String()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func TestCreateSession(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, "POST", "/api/v1/sessions", `{"region":" EU ","age":40}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp SessionResponse
	decode(t, w, &resp)
	assert.NotEqual(t, uuid.Nil, resp.SessionID)
	assert.Equal(t, worksheet.Profile{Region: "EU", Age: 40}, resp.Worksheet.Profile)
	assert.Len(t, resp.Worksheet.Options, 3)
	assert.Len(t, resp.Worksheet.Outcomes, 3)
	assert.Len(t, resp.Worksheet.Ratings, 9)
	assert.NotNil(t, resp.Worksheet.Constraints)
	assert.Equal(t, 1, env.manager.Count())
}

func TestCreateSessionValidation(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing age", `{"region":"EU"}`},
		{"age too high", `{"region":"EU","age":121}`},
		{"negative age", `{"region":"EU","age":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, "POST", "/api/v1/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Zero(t, env.manager.Count())
}

func TestSessionRequiresGate(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, "GET", "/api/v1/sessions/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "POST", "/api/v1/sessions/not-a-uuid/options", `{"name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndEndSession(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)

	w := env.do(t, "GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "DELETE", base, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddAndRemoveOptions(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)

	w := env.do(t, "POST", base+"/options", `{"name":"  Radiation "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var added struct {
		Added   bool     `json:"added"`
		Options []string `json:"options"`
	}
	decode(t, w, &added)
	assert.True(t, added.Added)
	assert.Equal(t, []string{"Surgery", "Chemotherapy A", "Chemotherapy B", "Radiation"}, added.Options)

	w = env.do(t, "POST", base+"/options", `{"name":"   "}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &added)
	assert.False(t, added.Added)
	assert.Len(t, added.Options, 4)

	w = env.do(t, "DELETE", base+"/options/0", "")
	require.Equal(t, http.StatusOK, w.Code)
	var removed struct {
		Removed string   `json:"removed"`
		Options []string `json:"options"`
	}
	decode(t, w, &removed)
	assert.Equal(t, "Surgery", removed.Removed)
	assert.Equal(t, []string{"Chemotherapy A", "Chemotherapy B", "Radiation"}, removed.Options)

	w = env.do(t, "DELETE", base+"/options/3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, "DELETE", base+"/options/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var view SessionResponse
	decode(t, env.do(t, "GET", base, ""), &view)
	assert.Len(t, view.Worksheet.Ratings, 9)
	for _, r := range view.Worksheet.Ratings {
		assert.NotEqual(t, "Surgery", r.Option)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Actions.WithLabelValues("add_option")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.ActionsIgnored.WithLabelValues("add_option")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Actions.WithLabelValues("remove_option")))
}

func TestAddAndRemoveOutcomes(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)

	w := env.do(t, "POST", base+"/outcomes", `{"name":"Fatigue"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var ratings struct {
		Ratings []worksheet.RatingEntry `json:"ratings"`
	}
	decode(t, env.do(t, "GET", base+"/ratings", ""), &ratings)
	assert.Len(t, ratings.Ratings, 12)

	w = env.do(t, "DELETE", base+"/outcomes/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var removed struct {
		Removed  string   `json:"removed"`
		Outcomes []string `json:"outcomes"`
	}
	decode(t, w, &removed)
	assert.Equal(t, "Severe nausea", removed.Removed)
	assert.Equal(t, []string{"Prolonged survival", "Hospital stay length", "Fatigue"}, removed.Outcomes)
}

func TestSetRating(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)

	w := env.do(t, "PUT", base+"/ratings", `{"option":"Surgery","outcome":"Severe nausea","field":"value","value":150}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var entry worksheet.RatingEntry
	decode(t, w, &entry)
	assert.Equal(t, worksheet.RatingEntry{Option: "Surgery", Outcome: "Severe nausea", Value: 100, Likelihood: 50}, entry)

	w = env.do(t, "PUT", base+"/ratings", `{"option":"Surgery","outcome":"Severe nausea","field":"likelihood","value":-10}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &entry)
	assert.Equal(t, 0, entry.Likelihood)
	assert.Equal(t, 100, entry.Value)

	w = env.do(t, "PUT", base+"/ratings", `{"option":"Surgery","outcome":"Severe nausea","field":"weight","value":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "PUT", base+"/ratings", `{"option":"Surgery","outcome":"Severe nausea","field":"value"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "PUT", base+"/ratings", `{"option":"Homeopathy","outcome":"Severe nausea","field":"value","value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConstraints(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)

	w := env.do(t, "POST", base+"/constraints", `{"description":"  travel distance "}`)
	require.Equal(t, http.StatusOK, w.Code)
	var added struct {
		Added       bool                   `json:"added"`
		Constraints []worksheet.Constraint `json:"constraints"`
	}
	decode(t, w, &added)
	assert.True(t, added.Added)
	assert.Equal(t, []worksheet.Constraint{{Description: "travel distance", Importance: 50}}, added.Constraints)

	w = env.do(t, "POST", base+"/constraints", `{"description":" "}`)
	decode(t, w, &added)
	assert.False(t, added.Added)
	assert.Len(t, added.Constraints, 1)

	w = env.do(t, "PUT", base+"/constraints/0/importance", `{"importance":250}`)
	require.Equal(t, http.StatusOK, w.Code)
	var set struct {
		Index      int                  `json:"index"`
		Constraint worksheet.Constraint `json:"constraint"`
	}
	decode(t, w, &set)
	assert.Equal(t, 100, set.Constraint.Importance)

	w = env.do(t, "PUT", base+"/constraints/4/importance", `{"importance":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, "PUT", base+"/constraints/0/importance", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "DELETE", base+"/constraints/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, "DELETE", base+"/constraints/0", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCompare(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)

	env.do(t, "DELETE", base+"/options/2", "")
	env.do(t, "DELETE", base+"/outcomes/2", "")
	env.do(t, "POST", base+"/constraints", `{"description":"cost"}`)
	env.do(t, "PUT", base+"/constraints/0/importance", `{"importance":80}`)
	env.do(t, "POST", base+"/constraints", `{"description":"travel"}`)
	env.do(t, "PUT", base+"/constraints/1/importance", `{"importance":20}`)

	w := env.do(t, "POST", base+"/compare", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result scoring.Comparison
	decode(t, w, &result)
	require.Len(t, result.Options, 2)
	assert.Equal(t, "Surgery", result.Options[0].Option)
	assert.Equal(t, "Chemotherapy A", result.Options[1].Option)
	assert.InDelta(t, 0.5, result.Options[0].Score, 1e-9)
	assert.InDelta(t, 0.5, result.Options[1].Score, 1e-9)
	assert.InDelta(t, 1.0, result.ConstraintScore, 1e-9)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Comparisons))

	env.hermes.mu.Lock()
	defer env.hermes.mu.Unlock()
	last := env.hermes.payloads[len(env.hermes.payloads)-1]
	ev, ok := last.(hermes.SessionComparedEvent)
	require.True(t, ok)
	assert.Len(t, ev.Scores, 2)
	assert.Equal(t, 2, ev.Constraints)
}

func TestCompareEmptyOptions(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, env.do(t, "DELETE", base+"/options/0", "").Code)
	}

	var result scoring.Comparison
	decode(t, env.do(t, "POST", base+"/compare", ""), &result)
	assert.NotNil(t, result.Options)
	assert.Empty(t, result.Options)
	assert.Equal(t, 0.0, result.ConstraintScore)
}

func TestExplain(t *testing.T) {
	env := setupTestRouter(t)
	base := env.createSession(t)
	env.do(t, "PUT", base+"/ratings", `{"option":"Surgery","outcome":"Prolonged survival","field":"value","value":100}`)

	w := env.do(t, "GET", base+"/compare/explain", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Options []scoring.Breakdown `json:"options"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Options, 3)
	surgery := resp.Options[0]
	assert.Equal(t, "Surgery", surgery.Option)
	require.Len(t, surgery.Contributions, 3)
	assert.Equal(t, "Prolonged survival", surgery.Contributions[0].Outcome)
	assert.InDelta(t, 0.5, surgery.Contributions[0].Weighted, 1e-9)
	assert.InDelta(t, 1.0, surgery.Score, 1e-9)
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter(prometheus.NewRegistry())
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Comparisons.Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	NewMetricsRouter(reg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "oovl_comparisons_total 1")
}
