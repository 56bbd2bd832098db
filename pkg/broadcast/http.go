package broadcast

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/oas-switchboard/broadcaster/pkg/common/models"
	"github.com/oas-switchboard/broadcaster/pkg/gateway/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/broadcasts", h.handleSend).Methods(http.MethodPost)
	r.HandleFunc("/records", h.handleListRecords).Methods(http.MethodGet)
	r.HandleFunc("/records/{article}", h.handleGetRecord).Methods(http.MethodGet)
}

type sendRequest struct {
	Article *models.Article `json:"article"`
}

// handleSend is the editor "resend" action.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Article == nil || req.Article.ID == 0 {
		http.Error(w, "article with id is required", http.StatusBadRequest)
		return
	}
	if req.Article.Journal.Code == "" {
		http.Error(w, "article journal code is required", http.StatusBadRequest)
		return
	}

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && !claims.CanAccessJournal(req.Article.Journal.Code) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	call := NewRequest(SourceResend, resolveActor(r))
	record, err := h.service.HandlePublication(r.Context(), call, req.Article)
	if err != nil {
		logger.Log.WithError(err).WithField("article_id", req.Article.ID).Error("failed to broadcast article")
		http.Error(w, "failed to broadcast article", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{"notices": call.Notices()}
	if record != nil {
		response["record"] = toRecord(record)
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	records, err := h.service.ListRecords(r.Context(), filter)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list switchboard messages")
		http.Error(w, "failed to list records", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": records})
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	articleID, err := strconv.ParseInt(mux.Vars(r)["article"], 10, 64)
	if err != nil {
		http.Error(w, "invalid article id", http.StatusBadRequest)
		return
	}
	record, err := h.service.GetRecord(r.Context(), articleID)
	if errors.Is(err, ErrRecordNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log.WithError(err).WithField("article_id", articleID).Error("failed to get switchboard message")
		http.Error(w, "failed to get record", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"record": record})
}

func parseFilter(r *http.Request) (ListFilter, error) {
	query := r.URL.Query()
	filter := ListFilter{
		MessageType: query.Get("message_type"),
		JournalCode: query.Get("journal"),
		Limit:       parseLimit(r, 50),
	}
	if raw := query.Get("success"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid success filter")
		}
		filter.Success = &value
	}
	if raw := query.Get("broadcast"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid broadcast filter")
		}
		filter.Broadcast = &value
	}
	if raw := query.Get("article"); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ListFilter{}, errors.New("invalid article filter")
		}
		filter.ArticleID = &value
	}
	return filter, nil
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func resolveActor(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		return claims.Subject
	}
	return "system"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
