// Package api exposes the marketplace actions as a JSON HTTP API.
// Endpoints mirror the action surface: registry (merged list), install,
// uninstall, and toggle.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pluginforge.dev/cli/internal/application/marketplace"
	"pluginforge.dev/cli/internal/core/domain/plugin"
	"pluginforge.dev/cli/internal/core/ports"
)

// Server serves the marketplace HTTP API.
type Server struct {
	service *marketplace.Service
	logger  ports.LoggingGateway
	addr    string
}

// NewServer creates a server bound to addr.
func NewServer(service *marketplace.Service, logger ports.LoggingGateway, addr string) *Server {
	return &Server{
		service: service,
		logger:  logger,
		addr:    addr,
	}
}

// Handler returns the route table. It is exposed separately from
// ListenAndServe so tests can drive it with httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/marketplace/registry", s.handleRegistry)
	mux.HandleFunc("/api/marketplace/install", s.handleInstall)
	mux.HandleFunc("/api/marketplace/uninstall", s.handleUninstall)
	mux.HandleFunc("/api/marketplace/toggle", s.handleToggle)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Log(ports.LogLevelInfo, "marketplace API listening", map[string]interface{}{
		"addr": s.addr,
	})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	views, err := s.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"plugins": views,
	})
}

type installRequest struct {
	PluginID   string `json:"plugin_id"`
	RepoURL    string `json:"repo_url"`
	PluginPath string `json:"plugin_path"`
	Branch     string `json:"branch"`
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req installRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	err := s.service.Install(r.Context(), marketplace.InstallRequest{
		PluginID:   req.PluginID,
		RepoURL:    req.RepoURL,
		PluginPath: req.PluginPath,
		Branch:     req.Branch,
	})
	if err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Plugin '" + req.PluginID + "' installed successfully.",
	})
}

type pluginIDRequest struct {
	PluginID string `json:"plugin_id"`
}

func (s *Server) handleUninstall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req pluginIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.service.Uninstall(r.Context(), req.PluginID); err != nil {
		writeActionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "Plugin '" + req.PluginID + "' uninstalled.",
	})
}

type toggleRequest struct {
	PluginID string `json:"plugin_id"`
	Enabled  *bool  `json:"enabled"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	// Omitted "enabled" means enable, matching the install flow where a
	// freshly installed plugin is activated.
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	if err := s.service.Toggle(r.Context(), req.PluginID, enabled); err != nil {
		writeActionError(w, err)
		return
	}

	status := plugin.StatusActive
	if !enabled {
		status = plugin.StatusInactive
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"status": status,
	})
}

// writeActionError maps domain errors to HTTP status codes. Missing
// fields are client errors; everything else keeps the diagnostic text.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plugin.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, plugin.ErrNotInstalled):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, plugin.ErrAlreadyInstalled):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, plugin.ErrProtected):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": message,
	})
}
