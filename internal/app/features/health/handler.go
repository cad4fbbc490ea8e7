package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/trainingplanner/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	// Client is nil unless selections are stored in MongoDB.
	Client *mongo.Client
	// Store names the active selection backend.
	Store string
	// Roles is the number of role catalogs loaded.
	Roles int
	Log   *zap.Logger
}

// NewHandler constructs a health Handler. client may be nil.
func NewHandler(client *mongo.Client, store string, roles int, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Store:  store,
		Roles:  roles,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Store    string `json:"selection_store"`
	Roles    int    `json:"roles"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "selection_store":"mongo", "roles":2 }
//
// "database" is "not_used" when selections live in the browser cookie or in
// memory. On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "not_used",
		Store:    h.Store,
		Roles:    h.Roles,
	}

	if h.Roles == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Message = "No role catalogs loaded"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Client != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
		defer cancel()

		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		resp.Database = "connected"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
