package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/ranznz/wage-survey/internal/auth"
	"github.com/ranznz/wage-survey/internal/middleware"
	appErrors "github.com/ranznz/wage-survey/pkg/errors"
	"github.com/ranznz/wage-survey/pkg/metrics"
	"github.com/ranznz/wage-survey/pkg/response"
)

// AuthHandler manages the staff authentication flow: login and the forced
// password change that follows a bootstrap login.
type AuthHandler struct {
	credentials *iauth.CredentialService
	jwt         *iauth.JWTService
}

func NewAuthHandler(credentials *iauth.CredentialService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{credentials: credentials, jwt: jwt}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.credentials.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, iauth.ErrInvalidCredentials) {
			response.Error(c, appErrors.ErrInvalidCredentials)
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	token, err := h.jwt.Issue(user.Email, user.MustChangePassword)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	// Clients branch on mustChangePassword before calling anything else.
	c.JSON(http.StatusOK, gin.H{
		"token":              token,
		"mustChangePassword": user.MustChangePassword,
	})
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// POST /api/auth/change-password
//
// Reachable with a token whose forced-change flag is still set. The response
// carries a fresh token so the client does not have to log in again.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	email := strings.TrimSpace(c.GetString(middleware.CtxEmailKey))
	if email == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.credentials.ChangePassword(requestContext(c), email, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, iauth.ErrWeakPassword):
			response.Error(c, appErrors.ErrWeakPassword)
		case errors.Is(err, iauth.ErrInvalidCredentials):
			response.Error(c, appErrors.ErrUnauthorized)
		default:
			response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		}
		return
	}

	token, err := h.jwt.Issue(user.Email, false)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}
