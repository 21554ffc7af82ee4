package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/urban-services/api/internal/middleware"
	"github.com/urban-services/api/internal/service"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode JSON response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error to its HTTP status. Anything that is
// not a known service error is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMissingIdentity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrIllegalTransition):
		writeError(w, http.StatusBadRequest, err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error(op,
			zap.Error(err),
			zap.String("path", r.URL.Path),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyServices) ||
		errors.Is(err, service.ErrMissingServiceTime) ||
		errors.Is(err, service.ErrInvalidServiceTime) ||
		errors.Is(err, service.ErrInvalidSubserviceID) ||
		errors.Is(err, service.ErrInvalidServiceCharge) ||
		errors.Is(err, service.ErrServiceChargeScale) ||
		errors.Is(err, service.ErrSubserviceNotFound)
}

// scopeFromRequest builds the caller scope from the authenticated claims.
func scopeFromRequest(r *http.Request) (service.Scope, error) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return service.Scope{}, service.ErrMissingIdentity
	}
	return service.NewScope(claims.UserID)
}

// parseIDParam reads a positive integer URL parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func numericToString(n pgtype.Numeric) string {
	return service.NumericToDecimal(n).StringFixed(2)
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func int8Ptr(n pgtype.Int8) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
