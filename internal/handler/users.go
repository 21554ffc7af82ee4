package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/urban-services/api/internal/database"
	"go.uber.org/zap"
)

// ProfileStore defines the database methods needed by the profile handler.
// Satisfied by *database.Queries; narrow interface for testability.
type ProfileStore interface {
	UpdateUserProfile(ctx context.Context, arg database.UpdateUserProfileParams) (database.User, error)
}

// ProfileHandler handles the caller's own profile.
type ProfileHandler struct {
	store ProfileStore
}

func NewProfileHandler(store ProfileStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Put("/profile", h.Update)
}

// updateProfileRequest uses pointers so an absent field is told apart from
// an empty one. Only present fields are written.
type updateProfileRequest struct {
	Address    *string `json:"address"`
	Pin        *string `json:"pin"`
	Profilepic *string `json:"profilepic"`
}

// Update patches address, pin and profilepic.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		writeServiceError(w, r, "update profile", err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Address == nil && req.Pin == nil && req.Profilepic == nil {
		writeError(w, http.StatusBadRequest, "at least one of address, pin, profilepic is required")
		return
	}

	params := database.UpdateUserProfileParams{ID: scope.UserID}
	if req.Address != nil {
		addr := strings.TrimSpace(*req.Address)
		if addr == "" {
			writeError(w, http.StatusBadRequest, "address cannot be empty")
			return
		}
		params.Address = pgtype.Text{String: addr, Valid: true}
	}
	if req.Pin != nil {
		if !pinPattern.MatchString(*req.Pin) {
			writeError(w, http.StatusBadRequest, "pin must be 6 digits")
			return
		}
		params.Pin = pgtype.Text{String: *req.Pin, Valid: true}
	}
	if req.Profilepic != nil {
		pic := strings.TrimSpace(*req.Profilepic)
		if pic == "" {
			writeError(w, http.StatusBadRequest, "profilepic cannot be empty")
			return
		}
		params.Profilepic = pgtype.Text{String: pic, Valid: true}
	}

	user, err := h.store.UpdateUserProfile(r.Context(), params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		zap.L().Error("update profile", zap.Error(err), zap.Int64("user_id", scope.UserID))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": toUserResponse(user)})
}
