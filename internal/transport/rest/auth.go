package rest

import (
	"encoding/json"
	"net/http"

	"github.com/sweetbloom/storefront/internal/auth"
	"github.com/sweetbloom/storefront/pkg/web"
)

var authStatus = map[string]int{
	auth.CodeMissingFields:     http.StatusBadRequest,
	auth.CodePasswordMismatch:  http.StatusBadRequest,
	auth.CodeWeakPassword:      http.StatusBadRequest,
	auth.CodeInvalidEmail:      http.StatusBadRequest,
	auth.CodeUserNotFound:      http.StatusUnauthorized,
	auth.CodeWrongPassword:     http.StatusUnauthorized,
	auth.CodeInvalidCredential: http.StatusUnauthorized,
	auth.CodeEmailAlreadyInUse: http.StatusConflict,
	auth.CodeTooManyRequests:   http.StatusTooManyRequests,
	auth.CodeNetworkFailed:     http.StatusServiceUnavailable,
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto auth.LoginDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	session, err := h.auth.Login(r.Context(), dto)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "User signed in", "uid", session.User.UID)
	web.RespondJSON(w, h.logger, http.StatusOK, session)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto auth.RegisterDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	session, err := h.auth.Register(r.Context(), dto)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "User registered", "uid", session.User.UID)
	web.RespondJSON(w, h.logger, http.StatusCreated, session)
}

// Me returns the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := web.PrincipalFrom(r.Context())
	if !ok {
		web.RespondError(w, h.logger, http.StatusUnauthorized, "Unauthorized: missing or invalid user")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, auth.User{UID: principal.UserID, Email: principal.Email})
}

// Logout ends every session of the caller. Asking for confirmation is up to the client.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := web.GetUserID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), userID); err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "User signed out")
	w.WriteHeader(http.StatusNoContent)
}

// respondAuthError writes the user-facing message for err with its code.
func (h *Handler) respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	code := auth.Code(err)
	status, known := authStatus[code]
	if !known {
		status = http.StatusInternalServerError
		h.logger.ErrorContext(r.Context(), "Authentication failed", "code", code, "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "Authentication rejected", "code", code)
	}
	body := map[string]string{"error": auth.Message(err)}
	if code != "" {
		body["code"] = code
	}
	web.RespondJSON(w, h.logger, status, body)
}
