package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/composer/internal/dependency"
	"github.com/hyperengineering/composer/internal/deploy"
	"github.com/hyperengineering/composer/internal/store"
	"github.com/hyperengineering/composer/internal/suggest"
	"github.com/hyperengineering/composer/internal/types"
	"github.com/hyperengineering/composer/internal/validation"
)

// Handler implements the API handlers
type Handler struct {
	store     store.Store
	deployer  deploy.Deployer
	suggester suggest.Suggester
	apiKey    string
	version   string
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, d deploy.Deployer, sg suggest.Suggester, apiKey, version string) *Handler {
	return &Handler{
		store:     s,
		deployer:  d,
		suggester: sg,
		apiKey:    apiKey,
		version:   version,
	}
}

// loadConfig loads the full draft configuration, writing a problem
// response and returning nil on failure.
func (h *Handler) loadConfig(w http.ResponseWriter, r *http.Request) *types.TenantConfig {
	cfg, err := h.store.LoadConfig(r.Context())
	if err != nil {
		slog.Error("load config failed", "error", err)
		MapStoreError(w, r, err)
		return nil
	}
	return cfg
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.LoadConfig(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Programs: len(cfg.Programs),
		Forms:    len(cfg.Forms),
		CTAs:     len(cfg.CTAs),
		Branches: len(cfg.Branches),
	})
}

// Validate handles POST /api/v1/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, validation.ValidateConfig(cfg))
}

// Checklist handles GET /api/v1/validate/checklist
func (h *Handler) Checklist(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, validation.GenerateDeploymentChecklist(cfg))
}

// Dependencies handles GET /api/v1/dependencies
func (h *Handler) Dependencies(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, dependency.Build(cfg))
}

// Deploy handles POST /api/v1/deploy.
// The configuration is re-validated and deployment is refused while any
// blocking error remains.
func (h *Handler) Deploy(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}

	checklist := validation.GenerateDeploymentChecklist(cfg)
	if !checklist.Ready {
		writeJSON(w, http.StatusUnprocessableEntity, types.DeployResponse{
			Deployed: false,
			Message:  checklist.Message,
		})
		return
	}

	key, err := h.deployer.Deploy(r.Context(), cfg)
	if err != nil {
		if errors.Is(err, deploy.ErrNotConfigured) {
			WriteProblem(w, r, http.StatusServiceUnavailable, "Deployment target not configured")
			return
		}
		slog.Error("deploy failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Deployment failed")
		return
	}

	slog.Info("configuration deployed", "object_key", key)
	writeJSON(w, http.StatusOK, types.DeployResponse{
		Deployed:  true,
		ObjectKey: key,
		Message:   checklist.Message,
	})
}

// Suggest handles POST /api/v1/suggest
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req types.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Kind != suggest.KindCTALabel && req.Kind != suggest.KindPrompt {
		WriteProblem(w, r, http.StatusBadRequest, "kind must be cta_label or prompt")
		return
	}
	if req.Text == "" {
		WriteProblem(w, r, http.StatusBadRequest, "text is required")
		return
	}

	suggestion, err := h.suggester.Suggest(r.Context(), req.Kind, req.Text)
	if err != nil {
		if errors.Is(err, suggest.ErrNotConfigured) {
			WriteProblem(w, r, http.StatusServiceUnavailable, "Suggestion service not configured")
			return
		}
		slog.Error("suggestion failed", "error", err, "kind", req.Kind)
		WriteProblem(w, r, http.StatusInternalServerError, "Suggestion failed")
		return
	}

	writeJSON(w, http.StatusOK, types.SuggestResponse{Suggestion: suggestion})
}
