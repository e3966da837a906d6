package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "Bearer"
	// browsers cannot set headers on a WebSocket handshake
	tokenQueryParam = "access_token"
	userIDKey       = "userId"

	errMissingAuth   = "missing Authorization header"
	errBadAuthFormat = "invalid Authorization header format"
	errBadToken      = "invalid or expired token"
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	token, errMsg := bearerToken(c)
	if errMsg != "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMsg})
		return
	}

	userId, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	// store in Gin context
	c.Set(userIDKey, userId)
	c.Next()
}

// bearerToken extracts the token from "Authorization: Bearer <t>", falling
// back to ?access_token=<t>. The second result is the rejection message.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		if t := c.Query(tokenQueryParam); t != "" {
			return t, ""
		}
		return "", errMissingAuth
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != bearerScheme || strings.TrimSpace(token) == "" {
		return "", errBadAuthFormat
	}
	return strings.TrimSpace(token), ""
}
