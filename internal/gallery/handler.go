package gallery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/internal/criteria"
)

// Handler exposes the gallery service over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a gallery Handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers gallery routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/gallery", h.handleList)
	mux.HandleFunc("GET /api/v1/gallery/facets", h.handleFacets)
	mux.HandleFunc("GET /api/v1/gallery/criteria", h.handleGetCriteria)
	mux.HandleFunc("POST /api/v1/gallery/criteria/search", h.handleSearch)
	mux.HandleFunc("POST /api/v1/gallery/criteria/category", h.handleCategory)
	mux.HandleFunc("POST /api/v1/gallery/criteria/model", h.handleModel)
	mux.HandleFunc("POST /api/v1/gallery/criteria/model-category", h.handleModelCategory)
	mux.HandleFunc("POST /api/v1/gallery/criteria/tag", h.handleTag)
	mux.HandleFunc("POST /api/v1/gallery/criteria/date", h.handleDate)
	mux.HandleFunc("POST /api/v1/gallery/criteria/sort", h.handleSort)
	mux.HandleFunc("POST /api/v1/gallery/criteria/liked-only", h.handleLikedOnly)
	mux.HandleFunc("POST /api/v1/gallery/criteria/clear", h.handleClear)
	mux.HandleFunc("POST /api/v1/gallery/reload", h.handleReload)
	mux.HandleFunc("GET /api/v1/likes", h.handleListLikes)
	mux.HandleFunc("POST /api/v1/likes/{id}/toggle", h.handleToggleLike)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 0)
	writeJSON(w, http.StatusOK, h.service.Page(page, perPage))
}

func (h *Handler) handleFacets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Facets())
}

func (h *Handler) handleGetCriteria(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.State())
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.service.SetSearch(r.Context(), req.Term))
}

func (h *Handler) handleCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.service.SelectCategory(r.Context(), req.Category))
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.service.SelectModel(r.Context(), req.Model))
}

func (h *Handler) handleModelCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.service.SelectModelCategory(r.Context(), req.Category))
}

func (h *Handler) handleTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tag == "" {
		writeGalleryError(w, http.StatusBadRequest, "tag is required")
		return
	}
	writeJSON(w, http.StatusOK, h.service.ToggleTag(r.Context(), req.Tag))
}

func (h *Handler) handleDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter criteria.DateFilter `json:"filter"`
		Range  criteria.DateRange  `json:"range"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Filter {
	case criteria.DateAll, criteria.DateToday, criteria.DateWeek, criteria.DateMonth, criteria.DateCustom:
	default:
		writeGalleryError(w, http.StatusBadRequest, "unknown date filter: "+string(req.Filter))
		return
	}
	writeJSON(w, http.StatusOK, h.service.SetDateFilter(r.Context(), req.Filter, req.Range))
}

func (h *Handler) handleSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sort criteria.SortKey `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Sort {
	case criteria.SortLatest, criteria.SortTitle, criteria.SortLikes, criteria.SortSource:
	default:
		writeGalleryError(w, http.StatusBadRequest, "unknown sort key: "+string(req.Sort))
		return
	}
	writeJSON(w, http.StatusOK, h.service.SetSort(r.Context(), req.Sort))
}

func (h *Handler) handleLikedOnly(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGalleryError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, h.service.SetLikedOnly(r.Context(), req.Enabled))
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ClearFilters(r.Context()))
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		h.logger.Error("catalog reload failed", zap.Error(err))
		writeGalleryError(w, http.StatusInternalServerError, "catalog reload failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

func (h *Handler) handleListLikes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ids": h.service.LikedIDs()})
}

func (h *Handler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeGalleryError(w, http.StatusBadRequest, "invalid entry id")
		return
	}
	liked := h.service.ToggleLike(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "liked": liked})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeGalleryError writes an RFC 7807 problem response.
func writeGalleryError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://promptvault.dev/problems/gallery-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
