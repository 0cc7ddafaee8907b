// Package http is the JSON transport of the service: chi routers per
// resource, bearer-token auth and a shared error envelope.
package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/FACorreiaa/bid-ledger/internal/domain/auth"
	"github.com/FACorreiaa/bid-ledger/internal/domain/bids"
	"github.com/FACorreiaa/bid-ledger/internal/domain/cpv"
	"github.com/FACorreiaa/bid-ledger/internal/domain/documents"
	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
	"github.com/FACorreiaa/bid-ledger/internal/domain/tenders"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// respondError maps domain sentinels onto HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, documents.ErrNotFound),
		errors.Is(err, tenders.ErrNotFound),
		errors.Is(err, bids.ErrBidNotFound),
		errors.Is(err, cpv.ErrUnknownCode),
		errors.Is(err, auth.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, documents.ErrDuplicateDocument):
		status = http.StatusConflict
	case errors.Is(err, tenders.ErrInvalidTender),
		errors.Is(err, extraction.ErrNilInput),
		errors.Is(err, extraction.ErrControlCharacter):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountInactive):
		status = http.StatusForbidden
	}
	respondJSON(w, r, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	respondJSON(w, r, http.StatusBadRequest, errorResponse{Error: msg})
}

// urlUUID parses a UUID path parameter, writing the error response itself.
func urlUUID(w http.ResponseWriter, r *http.Request, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, r, "invalid id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}
