package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rbessin/Momentm/internal/middleware"
	"github.com/rbessin/Momentm/internal/models"
	"github.com/rbessin/Momentm/internal/repository"
)

type TokenHandler struct {
	tokenRepo repository.APITokenRepository
}

func NewTokenHandler(tokenRepo repository.APITokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

func generateToken() (string, error) {
	buffer := make([]byte, 32)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

func (handler *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	tokens, err := handler.tokenRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("listing api tokens", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list tokens")
		return
	}
	if tokens == nil {
		tokens = []models.APIToken{}
	}
	writeJSON(w, http.StatusOK, tokens)
}

// Create mints a new token. The raw token is returned exactly once; only
// its hash is stored.
func (handler *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name      string     `json:"name"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rawToken, err := generateToken()
	if err != nil {
		slog.Error("generating api token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	user := middleware.GetUser(r.Context())
	token, err := handler.tokenRepo.Create(r.Context(), models.APIToken{
		Name:            request.Name,
		TokenHash:       repository.HashToken(rawToken),
		CreatedByUserID: user.ID,
		ExpiresAt:       request.ExpiresAt,
	})
	if err != nil {
		slog.Error("creating api token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":     token,
		"raw_token": rawToken,
	})
}

func (handler *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.tokenRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting api token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
