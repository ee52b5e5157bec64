// Package health reports API liveness and database reachability.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

type Handler struct {
	db  Pinger
	log *zap.Logger
	now func() time.Time
}

func NewHandler(db Pinger, log *zap.Logger) *Handler {
	return &Handler{db: db, log: log, now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.check)
}

// check always answers 200; the database field carries reachability.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	database := "connected"
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("health check: database unreachable", zap.Error(err))
		database = "disconnected"
	}
	httpx.Respond(w, http.StatusOK, Status{
		Status:    "OK",
		Database:  database,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
