package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farmovs/decanting/internal/repository"
	authsvc "github.com/farmovs/decanting/internal/service/auth"
)

// AuthHandler adapts operator registration and login to HTTP.
type AuthHandler struct {
	svc    *authsvc.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter for auth.
func NewAuthHandler(svc *authsvc.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an operator account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Request", "Username and password are required.")
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrWeakCredentials):
			respondError(c, http.StatusBadRequest, "Invalid Credentials", "Username or password is too short.")
		case errors.Is(err, repository.ErrUserExists):
			respondError(c, http.StatusConflict, "Username Taken", "Please choose a different username.")
		default:
			h.logger.Error("registration failed", zap.Error(err))
			respondError(c, http.StatusServiceUnavailable, "Store Unavailable", "The account could not be created. Please retry.")
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid Request", "Username and password are required.")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Sign In Failed", "Unknown username or wrong password.")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "Store Unavailable", "Sign in could not be completed. Please retry.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
