package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/FACorreiaa/bid-ledger/internal/domain/tenders"
)

// TenderHandler serves tender and bidder CRUD.
type TenderHandler struct {
	service *tenders.Service
	logger  *slog.Logger
}

// NewTenderHandler creates the tender handler.
func NewTenderHandler(service *tenders.Service, logger *slog.Logger) *TenderHandler {
	return &TenderHandler{
		service: service,
		logger:  logger.With(slog.String("component", "tender_handler")),
	}
}

// Routes returns the tender routes.
func (h *TenderHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/bidders", h.RegisterBidder)
	r.Get("/bidders/{id}", h.GetBidder)

	return r
}

func (h *TenderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, list)
}

func (h *TenderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t tenders.Tender
	if err := render.DecodeJSON(r.Body, &t); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if err := h.service.Create(r.Context(), &t); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, t)
}

func (h *TenderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, t)
}

func (h *TenderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var t tenders.Tender
	if err := render.DecodeJSON(r.Body, &t); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	t.ID = id

	if err := h.service.Update(r.Context(), &t); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, t)
}

func (h *TenderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TenderHandler) RegisterBidder(w http.ResponseWriter, r *http.Request) {
	var b tenders.Bidder
	if err := render.DecodeJSON(r.Body, &b); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if err := h.service.RegisterBidder(r.Context(), &b); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, b)
}

func (h *TenderHandler) GetBidder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	b, err := h.service.GetBidder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, b)
}
