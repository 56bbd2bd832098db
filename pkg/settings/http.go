package settings

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
)

type Handler struct {
	provider *Provider
}

func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

// Register mounts the settings manager under a journal-scoped router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/{code}/settings", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/{code}/settings", h.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/{code}/settings/install", h.handleInstall).Methods(http.MethodPost)
}

type settingsView struct {
	Enabled     bool   `json:"enabled"`
	Sandbox     bool   `json:"sandbox"`
	Email       string `json:"email"`
	HasPassword bool   `json:"has_password"`
	URL         string `json:"url"`
	SandboxURL  string `json:"sandbox_url"`
}

type updateRequest struct {
	Enabled    bool   `json:"enabled"`
	Sandbox    bool   `json:"sandbox"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	URL        string `json:"url"`
	SandboxURL string `json:"sandbox_url"`
}

func toView(s Settings) settingsView {
	return settingsView{
		Enabled:     s.Enabled,
		Sandbox:     s.Sandbox,
		Email:       s.Email,
		HasPassword: s.Password != "",
		URL:         s.URL,
		SandboxURL:  s.SandboxURL,
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	current, err := h.provider.Load(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).WithField("journal", code).Error("failed to load settings")
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"journal": code, "settings": toView(current)})
}

// handleUpdate keeps the stored password when the request leaves it empty.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.URL = strings.TrimSpace(req.URL)
	req.SandboxURL = strings.TrimSpace(req.SandboxURL)
	if req.Email == "" || req.URL == "" || req.SandboxURL == "" {
		http.Error(w, "email, url and sandbox_url are required", http.StatusBadRequest)
		return
	}

	current, err := h.provider.Load(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).WithField("journal", code).Error("failed to load settings")
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	password := req.Password
	if password == "" {
		password = current.Password
	}
	if password == "" {
		http.Error(w, "password is required", http.StatusBadRequest)
		return
	}

	updated := Settings{
		Enabled:    req.Enabled,
		Sandbox:    req.Sandbox,
		Email:      req.Email,
		Password:   password,
		URL:        req.URL,
		SandboxURL: req.SandboxURL,
	}
	if err := h.provider.Save(r.Context(), code, updated); err != nil {
		logger.Log.WithError(err).WithField("journal", code).Error("failed to save settings")
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"journal": code, "settings": toView(updated)})
}

func (h *Handler) handleInstall(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	written, err := h.provider.Install(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).WithField("journal", code).Error("failed to install settings")
		http.Error(w, "failed to install settings", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if written {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{"journal": code, "installed": written})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
