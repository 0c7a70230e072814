package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/2492dfd/stockLog-final/calc"
	"github.com/2492dfd/stockLog-final/i18n"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/models"
)

const (
	UserIDHeader = "X-User-ID"

	userKey = "user_id"
	langKey = "lang"
)

// RequireUser rejects requests without a user id header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": i18n.T(c.GetString(langKey), "unauthorized")})
			return
		}
		c.Set(userKey, id)
		c.Next()
	}
}

// Language picks the message language from Accept-Language.
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// respondError maps service errors onto status codes with a localized message.
func respondError(c *gin.Context, err error) {
	lang := c.GetString(langKey)

	var verr *calc.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, verr.Reason), "field": verr.Field})
	case errors.Is(err, calc.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(lang, "invalid_request")})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(lang, "not_found")})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(lang, "forbidden")})
	default:
		logger.ErrorWithErr(c.Request.Context(), "Request failed", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, "internal_error")})
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(c.GetString(langKey), "invalid_request")})
}
