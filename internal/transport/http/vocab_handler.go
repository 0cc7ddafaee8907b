package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/google/uuid"

	"github.com/FACorreiaa/bid-ledger/internal/domain/vocab"
)

// VocabHandler manages the unit vocabulary and its review tooling.
type VocabHandler struct {
	service *vocab.Service
	logger  *slog.Logger
}

// NewVocabHandler creates the vocabulary handler.
func NewVocabHandler(service *vocab.Service, logger *slog.Logger) *VocabHandler {
	return &VocabHandler{
		service: service,
		logger:  logger.With(slog.String("component", "vocab_handler")),
	}
}

// Routes returns the vocabulary routes.
func (h *VocabHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/{word}", h.Remove)
	r.Post("/suggest", h.Suggest)
	r.Post("/embedded", h.Embedded)

	return r
}

type vocabResponse struct {
	Words  []string        `json:"words"`
	Custom []vocab.Keyword `json:"custom"`
}

func (h *VocabHandler) List(w http.ResponseWriter, r *http.Request) {
	custom, err := h.service.ListKeywords(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, vocabResponse{
		Words:  h.service.Vocabulary().Words(),
		Custom: custom,
	})
}

type addKeywordRequest struct {
	Word string `json:"word"`
}

func (h *VocabHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addKeywordRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Word == "" {
		badRequest(w, r, "word is required")
		return
	}

	addedBy := uuid.Nil
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			addedBy = id
		}
	}

	k, err := h.service.AddKeyword(r.Context(), req.Word, addedBy)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, k)
}

func (h *VocabHandler) Remove(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if word == "" {
		badRequest(w, r, "word is required")
		return
	}
	if err := h.service.RemoveKeyword(r.Context(), word); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type suggestRequest struct {
	Names       []string `json:"names"`
	MaxDistance int      `json:"max_distance"`
}

// Suggest ranks near-miss tokens from parsed item names as vocabulary
// candidates.
func (h *VocabHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if req.MaxDistance <= 0 {
		req.MaxDistance = 2
	}
	respondJSON(w, r, http.StatusOK,
		h.service.Reviewer().SuggestFromNames(req.Names, req.MaxDistance))
}

type embeddedRequest struct {
	Names []string `json:"names"`
}

// Embedded reports vocabulary words found inside item names, a hint that a
// unit was folded into a name during extraction.
func (h *VocabHandler) Embedded(w http.ResponseWriter, r *http.Request) {
	var req embeddedRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}

	matches := make([]vocab.EmbeddedMatch, 0)
	for _, name := range req.Names {
		matches = append(matches, h.service.Reviewer().EmbeddedUnits(name)...)
	}
	respondJSON(w, r, http.StatusOK, matches)
}
