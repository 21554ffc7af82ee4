package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/urban-services/api/internal/auth"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/enum"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthStore defines the database methods needed by auth handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type AuthStore interface {
	CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	GetUserByEmail(ctx context.Context, email string) (database.User, error)
	CreateAgent(ctx context.Context, arg database.CreateAgentParams) (database.Agent, error)
	GetAgentByEmail(ctx context.Context, email string) (database.Agent, error)
	CreateAdmin(ctx context.Context, arg database.CreateAdminParams) (database.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (database.Admin, error)
}

// TokenConfig holds the per-role signing secrets and the token lifetime.
type TokenConfig struct {
	UserSecret  string
	AgentSecret string
	AdminSecret string
	TTL         time.Duration
}

// AuthHandler handles registration and login for users, agents and admins.
type AuthHandler struct {
	store      AuthStore
	tokens     TokenConfig
	bcryptCost int
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store AuthStore, tokens TokenConfig) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, bcryptCost: bcrypt.DefaultCost}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
// Expected to be mounted at /api/auth.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/user/register", h.RegisterUser)
	r.Post("/user/login", h.LoginUser)
	r.Post("/agent/register", h.RegisterAgent)
	r.Post("/agent/login", h.LoginAgent)
	r.Post("/admin/register", h.RegisterAdmin)
	r.Post("/admin/login", h.LoginAdmin)
}

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

// --- Request / Response types ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Address    string `json:"address"`
	Pin        string `json:"pin"`
	Profilepic string `json:"profilepic"`
}

type registerAgentRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Address      string `json:"address"`
	Pin          string `json:"pin"`
	Profilepic   string `json:"profilepic"`
	IDProof      string `json:"id_proof"`
	AddressProof string `json:"address_proof"`
}

type userResponse struct {
	ID         int64   `json:"id"`
	Email      string  `json:"email"`
	Address    string  `json:"address"`
	Pin        string  `json:"pin"`
	Profilepic *string `json:"profilepic"`
}

type agentResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Address     string `json:"address"`
	Pin         string `json:"pin"`
	IsVerified  bool   `json:"isVerified"`
	IsAvailable bool   `json:"isAvailable"`
}

type adminResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// --- Registration ---

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Address) == "" || req.Pin == "" {
		writeError(w, http.StatusBadRequest, "required fields: email, password, address, pin")
		return
	}
	if !pinPattern.MatchString(req.Pin) {
		writeError(w, http.StatusBadRequest, "pin must be 6 digits")
		return
	}

	hash, ok := h.hashPassword(w, req.Password)
	if !ok {
		return
	}

	user, err := h.store.CreateUser(r.Context(), database.CreateUserParams{
		Email:      req.Email,
		Password:   hash,
		Address:    strings.TrimSpace(req.Address),
		Pin:        req.Pin,
		Profilepic: optionalText(req.Profilepic),
	})
	if err != nil {
		h.writeCreateError(w, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "registration successful",
		"user":    toUserResponse(user),
	})
}

func (h *AuthHandler) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Address) == "" || req.Pin == "" {
		writeError(w, http.StatusBadRequest, "required fields: email, password, name, type, address, pin")
		return
	}
	if !pinPattern.MatchString(req.Pin) {
		writeError(w, http.StatusBadRequest, "pin must be 6 digits")
		return
	}

	hash, ok := h.hashPassword(w, req.Password)
	if !ok {
		return
	}

	agent, err := h.store.CreateAgent(r.Context(), database.CreateAgentParams{
		Email:        req.Email,
		Password:     hash,
		Name:         strings.TrimSpace(req.Name),
		Type:         strings.TrimSpace(req.Type),
		Address:      strings.TrimSpace(req.Address),
		Pin:          req.Pin,
		Profilepic:   optionalText(req.Profilepic),
		IDProof:      optionalText(req.IDProof),
		AddressProof: optionalText(req.AddressProof),
	})
	if err != nil {
		h.writeCreateError(w, "create agent", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "agent registered successfully",
		"agent":   toAgentResponse(agent),
	})
}

func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "required fields: email, password")
		return
	}

	hash, ok := h.hashPassword(w, req.Password)
	if !ok {
		return
	}

	admin, err := h.store.CreateAdmin(r.Context(), database.CreateAdminParams{
		Email:    req.Email,
		Password: hash,
	})
	if err != nil {
		h.writeCreateError(w, "create admin", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "admin registered successfully",
		"admin":   adminResponse{ID: admin.ID, Email: admin.Email},
	})
}

// --- Login ---

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if !h.checkAccount(w, "get user by email", err, user.Password, req.Password) {
		return
	}
	h.respondWithToken(w, h.tokens.UserSecret, user.ID, user.Email, enum.RoleUser, "user", toUserResponse(user))
}

func (h *AuthHandler) LoginAgent(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	agent, err := h.store.GetAgentByEmail(r.Context(), req.Email)
	if !h.checkAccount(w, "get agent by email", err, agent.Password, req.Password) {
		return
	}
	h.respondWithToken(w, h.tokens.AgentSecret, agent.ID, agent.Email, enum.RoleAgent, "agent", toAgentResponse(agent))
}

func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	admin, err := h.store.GetAdminByEmail(r.Context(), req.Email)
	if !h.checkAccount(w, "get admin by email", err, admin.Password, req.Password) {
		return
	}
	h.respondWithToken(w, h.tokens.AdminSecret, admin.ID, admin.Email, enum.RoleAdmin, "admin",
		adminResponse{ID: admin.ID, Email: admin.Email})
}

// --- Helpers ---

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return req, false
	}
	return req, true
}

// checkAccount reports whether the lookup succeeded and the password matches.
// Unknown email and wrong password produce the same 401.
func (h *AuthHandler) checkAccount(w http.ResponseWriter, op string, lookupErr error, hash, password string) bool {
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return false
		}
		zap.L().Error(op, zap.Error(lookupErr))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return false
	}
	return true
}

func (h *AuthHandler) hashPassword(w http.ResponseWriter, password string) (string, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			writeError(w, http.StatusBadRequest, "password is too long")
			return "", false
		}
		zap.L().Error("hash password", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return "", false
	}
	return string(hash), true
}

func (h *AuthHandler) writeCreateError(w http.ResponseWriter, op string, err error) {
	if isUniqueViolation(err) {
		writeError(w, http.StatusConflict, "email is already registered")
		return
	}
	zap.L().Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, secret string, id int64, email, role, key string, account interface{}) {
	token, err := auth.GenerateToken(secret, id, email, role, h.tokens.TTL)
	if err != nil {
		zap.L().Error("generate token", zap.Error(err), zap.String("role", role))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"token":   token,
		key:       account,
	})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func optionalText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toUserResponse(u database.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Address:    u.Address,
		Pin:        u.Pin,
		Profilepic: textPtr(u.Profilepic),
	}
}

func toAgentResponse(a database.Agent) agentResponse {
	return agentResponse{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Type:        a.Type,
		Address:     a.Address,
		Pin:         a.Pin,
		IsVerified:  a.IsVerified,
		IsAvailable: a.IsAvailable,
	}
}
