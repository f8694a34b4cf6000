package auth

import (
	"context"
	"net"
	"net/http"

	"github.com/redmonkez12/taskmanager-api/internal/apperror"
	"github.com/redmonkez12/taskmanager-api/internal/httputil"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
)

// RateLimiter throttles unauthenticated endpoints by client IP.
type RateLimiter interface {
	AllowIPRequestWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
}

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service        *Service
	rateLimiter    RateLimiter
	exposeInternal bool
}

// NewHandler wires the auth endpoints. rateLimiter may be nil.
func NewHandler(service *Service, rateLimiter RateLimiter, exposeInternal bool) *Handler {
	return &Handler{
		service:        service,
		rateLimiter:    rateLimiter,
		exposeInternal: exposeInternal,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the profile fields to change. Omitted fields are left alone.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account. The response never contains the password hash.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} httputil.Envelope{data=user.User}
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      409 {object} httputil.Envelope "Email already exists"
// @Failure      429 {object} httputil.Envelope "Too many requests"
// @Failure      500 {object} httputil.Envelope "Internal server error"
// @Router       /api/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.throttled(w, r, logger, "register") {
		return
	}

	var req RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, logger, "registration rejected", err)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.respondError(w, logger, "registration failed", err)
		return
	}

	logger.Info("user registered", "user_id", newUser.ID)
	httputil.RespondSuccess(w, http.StatusCreated, newUser, "User registered successfully")
}

// Login handles user authentication
// @Summary      Log in
// @Description  Exchange email and password for a bearer token valid for 24 hours.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} httputil.Envelope{data=AuthResult}
// @Failure      400 {object} httputil.Envelope "Validation error"
// @Failure      401 {object} httputil.Envelope "Invalid email or password"
// @Failure      429 {object} httputil.Envelope "Too many requests"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	if h.throttled(w, r, logger, "login") {
		return
	}

	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, logger, "login rejected", err)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	result, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, logger, "login failed", err)
		return
	}

	logger.Info("user logged in", "user_id", result.User.ID)
	httputil.RespondSuccess(w, http.StatusOK, result, "Login successful")
}

// GetProfile returns the caller's profile
// @Summary      Get profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope{data=user.User}
// @Failure      401 {object} httputil.Envelope "Access token required"
// @Failure      403 {object} httputil.Envelope "Invalid or expired token"
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /api/auth/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Access token required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.respondError(w, logger, "get profile failed", err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, profile, "")
}

// UpdateProfile changes the caller's name, email or password
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} httputil.Envelope{data=user.User}
// @Failure      400 {object} httputil.Envelope "Validation error or no fields"
// @Failure      404 {object} httputil.Envelope "User not found"
// @Failure      409 {object} httputil.Envelope "Email already exists"
// @Router       /api/auth/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Access token required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.respondError(w, logger, "profile update rejected", err)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), userID, ProfilePatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, logger, "profile update failed", err)
		return
	}

	logger.Info("profile updated", "user_id", userID, "password_changed", req.Password != nil)
	httputil.RespondSuccess(w, http.StatusOK, updated, "Profile updated successfully")
}

// DeleteProfile deletes the caller's account and all of their tasks
// @Summary      Delete account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} httputil.Envelope
// @Failure      404 {object} httputil.Envelope "User not found"
// @Router       /api/auth/profile [delete]
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Access token required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		h.respondError(w, logger, "account deletion failed", err)
		return
	}

	logger.Info("account deleted", "user_id", userID)
	httputil.RespondSuccess(w, http.StatusOK, nil, "Profile deleted successfully")
}

// throttled counts the caller's IP for purpose and rejects the request
// once the window is used up. Limiter failures are logged and the request
// goes through.
func (h *Handler) throttled(w http.ResponseWriter, r *http.Request, logger *logging.Logger, purpose string) bool {
	if h.rateLimiter == nil {
		return false
	}

	ip := getClientIP(r)
	allowed, err := h.rateLimiter.AllowIPRequestWithPurpose(r.Context(), ip, purpose)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		return false
	}
	if !allowed {
		logger.Warn("IP rate limit exceeded", "ip", ip, "purpose", purpose)
		httputil.RespondErrorWithCode(w, "Too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
		return true
	}

	return false
}

func (h *Handler) respondError(w http.ResponseWriter, logger *logging.Logger, msg string, err error) {
	if apperror.KindOf(err) == apperror.Internal {
		logger.Error(msg, "error", err.Error())
	} else {
		logger.Warn(msg, "error", err.Error())
	}
	httputil.RespondError(w, err, h.exposeInternal)
}

// getClientIP reads RemoteAddr, which chi's RealIP middleware has
// already replaced with the forwarded address when present.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
