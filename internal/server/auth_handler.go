package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/PrintfR/HardCode/internal/server/middleware"
	"github.com/PrintfR/HardCode/internal/types"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	verifier    GoogleVerifier
	jwtService  *JWTService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, verifier GoogleVerifier, jwtService *JWTService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		userService: userService,
		verifier:    verifier,
		jwtService:  jwtService,
		logger:      logger.Named("auth"),
	}
}

// GoogleSignIn exchanges a Google ID token for a session token.
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req types.GoogleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		h.logger.Warn("google sign-in rejected", zap.Error(err))
		var authErr *AuthenticationError
		if errors.As(err, &authErr) {
			errorResponse(w, http.StatusUnauthorized, "Invalid Google credential")
			return
		}
		errorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	user, err := h.userService.SignIn(r.Context(), identity)
	if err != nil {
		h.logger.Error("sign-in failed", zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	jsonResponse(w, http.StatusOK, types.LoginResponse{User: user, Token: token})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusNotFound {
			errorResponse(w, status, "User not found")
			return
		}
		h.logger.Error("failed to get user", zap.String("user_id", userID), zap.Error(err))
		errorResponse(w, status, "Failed to get user")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}
