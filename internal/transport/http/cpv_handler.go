package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/FACorreiaa/bid-ledger/internal/domain/cpv"
)

// CPVHandler serves the classification-code dictionary and its full-text
// search.
type CPVHandler struct {
	dict   *cpv.Repository
	search *cpv.SearchIndex
	logger *slog.Logger
}

// NewCPVHandler creates the CPV handler.
func NewCPVHandler(dict *cpv.Repository, search *cpv.SearchIndex, logger *slog.Logger) *CPVHandler {
	return &CPVHandler{
		dict:   dict,
		search: search,
		logger: logger.With(slog.String("component", "cpv_handler")),
	}
}

// Routes returns the CPV routes.
func (h *CPVHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/search", h.Search)
	r.Get("/{code}", h.Get)

	return r
}

func (h *CPVHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !cpv.IsValidCode(code) {
		badRequest(w, r, "malformed CPV code: "+code)
		return
	}

	entry, err := h.dict.Get(r.Context(), cpv.BaseCode(code))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, entry)
}

func (h *CPVHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		badRequest(w, r, "q is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	hits, err := h.search.Search(q, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, hits)
}
