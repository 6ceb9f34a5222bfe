package handler

import (
	"errors"
	"log"
	"net/http"

	"bookstore/internal/service"
)

type AuthHandler struct {
	logger      *log.Logger
	authService *service.AuthService
}

func NewAuthHandler(logger *log.Logger, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegistrationInput
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	customerID, err := h.authService.Register(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateUser):
			writeError(h.logger, w, http.StatusBadRequest, err.Error())
		default:
			writeError(h.logger, w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, map[string]any{
		"message":     "Registration successful",
		"customer_id": customerID,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeBody(r, &in); err != nil {
		writeError(h.logger, w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), in.Username, in.Password, in.UserType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(h.logger, w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    result.Session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(h.logger, w, http.StatusOK, map[string]any{
		"success":   true,
		"user_type": result.Identity.Role,
		"token":     result.Session.Token,
		"user":      result.Profile,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	if err := h.authService.Logout(r.Context(), identity, extractToken(r)); err != nil {
		writeError(h.logger, w, http.StatusInternalServerError, "logout failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(h.logger, w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, err := h.authService.Resolve(r.Context(), extractToken(r))
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			writeJSON(h.logger, w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		writeError(h.logger, w, http.StatusInternalServerError, "session lookup failed")
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":       identity.ID,
			"username": identity.Username,
			"type":     identity.Role,
		},
	})
}
