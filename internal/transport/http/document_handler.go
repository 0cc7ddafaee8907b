package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/FACorreiaa/bid-ledger/internal/domain/documents"
)

// 10 MiB is far beyond any extracted bid-table text.
const maxUploadBytes = 10 << 20

// DocumentHandler serves document upload and status lookup.
type DocumentHandler struct {
	service *documents.Service
	logger  *slog.Logger
}

// NewDocumentHandler creates the document handler.
func NewDocumentHandler(service *documents.Service, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With(slog.String("component", "document_handler")),
	}
}

// Routes returns the document routes.
func (h *DocumentHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Upload)
	r.Get("/{id}", h.Get)

	return r
}

// Upload registers extracted bid-document text. The multipart form carries
// the text file plus tender_id, bidder_id and optional lot metadata.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, r, "invalid multipart form")
		return
	}

	tenderID, err := uuid.Parse(r.FormValue("tender_id"))
	if err != nil {
		badRequest(w, r, "invalid tender_id")
		return
	}
	bidderID, err := uuid.Parse(r.FormValue("bidder_id"))
	if err != nil {
		badRequest(w, r, "invalid bidder_id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, r, "missing file field")
		return
	}
	defer file.Close()

	params := documents.RegisterParams{
		TenderID: tenderID,
		BidderID: bidderID,
		Filename: header.Filename,
	}
	if lot := r.FormValue("lot_number"); lot != "" {
		params.LotNumber = &lot
	}
	if desc := r.FormValue("lot_description"); desc != "" {
		params.LotDescription = &desc
	}

	doc, err := h.service.Register(r.Context(), params, file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.logger.Info("document registered",
		slog.String("document_id", doc.ID.String()),
		slog.String("filename", doc.Filename),
	)
	respondJSON(w, r, http.StatusCreated, doc)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	doc, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, doc)
}
