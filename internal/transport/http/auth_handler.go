package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/markbates/goth/gothic"

	"github.com/FACorreiaa/bid-ledger/internal/domain/auth"
)

// AuthHandler serves registration, login and OAuth callbacks.
type AuthHandler struct {
	service *auth.Service
	logger  *slog.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(service *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With(slog.String("component", "auth_handler")),
	}
}

// Routes returns the auth routes.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	r.Get("/oauth/{provider}", h.BeginOAuth)
	r.Get("/oauth/{provider}/callback", h.OAuthCallback)

	return r
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	User   *auth.User      `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

func sessionMeta(r *http.Request) auth.SessionMetadata {
	return auth.SessionMetadata{
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}

	res, err := h.service.Register(r.Context(), req.Email, req.Password, req.DisplayName, sessionMeta(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, loginResponse{User: res.User, Tokens: res.Tokens})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password, sessionMeta(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, loginResponse{User: res.User, Tokens: res.Tokens})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken, sessionMeta(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON body")
		return
	}
	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BeginOAuth redirects the browser to the provider's consent page.
func (h *AuthHandler) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	gothic.BeginAuthHandler(w, r)
}

// OAuthCallback completes the provider handshake and issues local tokens.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	r = withProvider(r)
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		h.logger.Warn("oauth callback failed", slog.Any("error", err))
		badRequest(w, r, "oauth authentication failed")
		return
	}

	provider := chi.URLParam(r, "provider")
	res, created, err := h.service.LoginOrRegisterOAuth(r.Context(), provider, &gothUser, sessionMeta(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, r, status, loginResponse{User: res.User, Tokens: res.Tokens})
}

// withProvider copies the chi provider parameter into the query string,
// which is where gothic looks for it.
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", chi.URLParam(r, "provider"))
	r.URL.RawQuery = q.Encode()
	return r
}
