package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/oovl/internal/api"
	"github.com/MikeSquared-Agency/oovl/internal/config"
	"github.com/MikeSquared-Agency/oovl/internal/metrics"
	"github.com/MikeSquared-Agency/oovl/internal/scoring"
	"github.com/MikeSquared-Agency/oovl/internal/session"
	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

func startServer(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default()
	cfg.Server.RateLimitPerMinute = 0

	m := metrics.New(prometheus.NewRegistry())
	mgr := session.NewManager(nil, m, cfg, logger)
	srv := httptest.NewServer(api.NewRouter(mgr, scoring.NewScorer(logger), nil, m, cfg, logger))
	t.Cleanup(srv.Close)
	return srv.URL + "/api/v1/sessions"
}

func TestParseConstraint(t *testing.T) {
	c := parseConstraint("travel distance (80)")
	assert.Equal(t, "travel distance", c.Description)
	require.NotNil(t, c.Importance)
	assert.Equal(t, 80, *c.Importance)

	c = parseConstraint("cost")
	assert.Equal(t, "cost", c.Description)
	assert.Nil(t, c.Importance)

	c = parseConstraint("(80)")
	assert.Equal(t, "", c.Description)
}

func TestPostConstraintsUsesLiveIndex(t *testing.T) {
	base := startServer(t)
	client := &http.Client{}

	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, send(client, http.MethodPost, base, map[string]interface{}{"region": "EU", "age": 40}, http.StatusCreated, &created))
	sessionURL := base + "/" + created.SessionID

	items := []constraintItem{
		parseConstraint("(80)"),
		parseConstraint("cost (20)"),
		parseConstraint("travel"),
		parseConstraint("waiting time (90)"),
	}
	posted, skipped := postConstraints(client, sessionURL, items)
	assert.Equal(t, 3, posted)
	assert.Equal(t, 1, skipped)

	var view struct {
		Worksheet worksheet.View `json:"worksheet"`
	}
	require.NoError(t, send(client, http.MethodGet, sessionURL, nil, http.StatusOK, &view))
	assert.Equal(t, []worksheet.Constraint{
		{Description: "cost", Importance: 20},
		{Description: "travel", Importance: 50},
		{Description: "waiting time", Importance: 90},
	}, view.Worksheet.Constraints)
}
