package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/oovl/internal/config"
	"github.com/MikeSquared-Agency/oovl/internal/session"
)

type AdminHandler struct {
	manager *session.Manager
	cfg     *config.Config
}

func NewAdminHandler(m *session.Manager, cfg *config.Config) *AdminHandler {
	return &AdminHandler{manager: m, cfg: cfg}
}

type Stats struct {
	ActiveSessions int    `json:"active_sessions"`
	MaxSessions    int    `json:"max_sessions"`
	IdleTimeout    string `json:"idle_timeout"`
}

// Stats handles GET /api/v1/stats (admin only)
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Stats{
		ActiveSessions: h.manager.Count(),
		MaxSessions:    h.cfg.Session.MaxSessions,
		IdleTimeout:    h.cfg.IdleTimeout().String(),
	})
}
