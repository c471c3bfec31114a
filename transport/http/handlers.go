package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sandipan3/hackoasis-backend/core"
	"github.com/Sandipan3/hackoasis-backend/service"
)

// AuthHandlers contains HTTP handlers for the wallet auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Nonce handles the challenge request: returns the current nonce for an
// address, creating the identity record on first sight.
func (h *AuthHandlers) Nonce(c *gin.Context) {
	var req struct {
		PublicAddress string `json:"publicAddress"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Public address is required"})
		return
	}

	nonce, err := h.authService.GetOrCreateNonce(c.Request.Context(), req.PublicAddress)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Login verifies the signed challenge and returns a bearer token.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		PublicAddress string `json:"publicAddress"`
		Signature     string `json:"signature"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing publicAddress or signature"})
		return
	}

	token, address, err := h.authService.Login(c.Request.Context(), req.PublicAddress, req.Signature)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"publicAddress": address.String(),
	})
}

// Me returns the identity claims of the authenticated caller.
func (h *AuthHandlers) Me(c *gin.Context) {
	subject, sok := c.Get(ContextSubjectKey)
	address, aok := c.Get(ContextAddressKey)
	if !sok || !aok {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "User not found in context"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      subject,
		"address": address,
	})
}

// writeAuthError maps domain errors to HTTP statuses. Unexpected faults are
// reported generically so storage internals never leak.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Public address is required"})
	case errors.Is(err, core.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid public address"})
	case errors.Is(err, core.ErrSignatureRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing publicAddress or signature"})
	case errors.Is(err, core.ErrIdentityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, core.ErrInvalidSignature), errors.Is(err, core.ErrNonceConsumed):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Signature verification failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
