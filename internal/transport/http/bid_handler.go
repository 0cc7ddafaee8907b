package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/FACorreiaa/bid-ledger/internal/domain/bids"
)

// BidHandler triggers parsing and serves parsed bids and exports.
type BidHandler struct {
	service *bids.Service
	logger  *slog.Logger
}

// NewBidHandler creates the bid handler.
func NewBidHandler(service *bids.Service, logger *slog.Logger) *BidHandler {
	return &BidHandler{
		service: service,
		logger:  logger.With(slog.String("component", "bid_handler")),
	}
}

// Routes returns the bid routes. Bids are addressed by the document they
// were parsed from.
func (h *BidHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/tender/{id}", h.ListByTender)
	r.Route("/{id}", func(r chi.Router) {
		r.Post("/parse", h.Parse)
		r.Get("/", h.GetBid)
		r.Get("/export.csv", h.ExportCSV)
		r.Get("/export.xlsx", h.ExportXLSX)
		r.Get("/inconsistencies", h.Inconsistencies)
	})

	return r
}

// Parse runs the extraction pipeline on a registered document.
func (h *BidHandler) Parse(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	bid, err := h.service.ParseDocument(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, bid)
}

func (h *BidHandler) GetBid(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	bid, err := h.service.GetByDocument(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, bid)
}

func (h *BidHandler) ListByTender(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	list, err := h.service.ListByTender(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, list)
}

// Inconsistencies cross-checks the monetary columns of a parsed bid.
func (h *BidHandler) Inconsistencies(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	bid, err := h.service.GetByDocument(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := bids.CheckArithmetic(bid.Items)
	if out == nil {
		out = []bids.Inconsistency{}
	}
	respondJSON(w, r, http.StatusOK, out)
}

func (h *BidHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	bid, err := h.service.GetByDocument(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="bid-%s.csv"`, id))
	if err := bids.ExportCSV(w, bid); err != nil {
		h.logger.Error("csv export failed", slog.Any("error", err))
	}
}

func (h *BidHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	bid, err := h.service.GetByDocument(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	f, err := bids.ExportXLSX(bid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="bid-%s.xlsx"`, id))
	if err := f.Write(w); err != nil {
		h.logger.Error("xlsx export failed", slog.Any("error", err))
	}
}
