package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kmcrae/sociogram/pkg/logging"
)

// Handler serves the authentication endpoints.
type Handler struct {
	users    UserStore
	sessions *SessionManager
	resets   *ResetTokenStore
	validate *validator.Validate
	logger   logging.Logger
}

// NewHandler creates an authentication handler.
func NewHandler(users UserStore, sessions *SessionManager, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{
		users:    users,
		sessions: sessions,
		resets:   NewResetTokenStore(DefaultResetTokenTTL),
		validate: validator.New(),
		logger:   logger,
	}
}

// Login authenticates a user and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || !VerifyPassword(user, req.Password) {
		h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.sessions.Generate(user)
	if err != nil {
		h.logger.Error("Failed to generate session token", logging.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("User logged in", logging.UserEmail(user.Email))
	h.respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Token:   token,
		User:    sessionUser(user),
	})
}

// Logout revokes the current session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.Revoke(token)
	}
	h.respondJSON(w, http.StatusOK, MessageResponse{Success: true})
}

// Signup registers a new user and issues a session token.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.CreateUser(r.Context(), &NewUser{
		Email:    req.Email,
		Name:     req.Name,
		Username: req.Username,
		Mobile:   req.Mobile,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserExists), errors.Is(err, ErrUsernameTaken):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidEmail):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create user", logging.Error(err))
			h.respondError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	token, err := h.sessions.Generate(user)
	if err != nil {
		h.logger.Error("Failed to generate session token", logging.Error(err))
		h.respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("User registered", logging.UserEmail(user.Email))
	h.respondJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Token:   token,
		User:    sessionUser(user),
	})
}

// CheckAuth reports whether the request carries a valid session.
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	claims, err := h.SessionFromRequest(r)
	if err != nil {
		h.respondJSON(w, http.StatusOK, CheckAuthResponse{Authenticated: false})
		return
	}

	h.respondJSON(w, http.StatusOK, CheckAuthResponse{
		Authenticated: true,
		User: &SessionUser{
			Email:    claims.Email,
			Name:     claims.Name,
			Username: claims.Username,
		},
	})
}

// ForgotPassword issues a single-use reset token. In a full deployment the
// token is emailed to the user; here it is logged.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.users.GetUserByEmail(r.Context(), req.Email); err != nil {
		h.respondError(w, http.StatusNotFound, "User not found")
		return
	}

	token := h.resets.Issue(req.Email)
	h.logger.Info("Password reset token issued",
		logging.UserEmail(req.Email),
		logging.String("reset_token", token),
	)

	h.respondJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Reset instructions sent",
	})
}

// ResetPassword consumes a reset token and sets a new password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	email, err := h.resets.Consume(req.Token)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid token")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), email, req.Password); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Password reset", logging.UserEmail(email))
	h.respondJSON(w, http.StatusOK, MessageResponse{Success: true})
}

// SessionFromRequest validates the bearer token on a request.
func (h *Handler) SessionFromRequest(r *http.Request) (*Claims, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	return h.sessions.Validate(token)
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// decode parses and validates a JSON request body. Writes an error response
// and returns false on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fmt.Sprintf("Invalid or missing fields: %s", strings.Join(fields, ", "))
	}
	return "Invalid request"
}

func sessionUser(user *User) SessionUser {
	return SessionUser{
		Email:    user.Email,
		Name:     user.Name,
		Username: user.Username,
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", logging.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ErrorResponse{Success: false, Error: message})
}
