package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/2492dfd/stockLog-final/i18n"
)

func (h *Handler) SearchStocks(c *gin.Context) {
	stocks, err := h.logs.SearchStocks(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stocks)
}

// GetPrice answers 404 for any lookup failure; the reason is only logged.
func (h *Handler) GetPrice(c *gin.Context) {
	ticker := c.Query("ticker")
	if ticker == "" {
		badRequest(c)
		return
	}
	quote, ok := h.logs.Quote(c.Request.Context(), ticker)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(c.GetString(langKey), "not_found")})
		return
	}
	c.JSON(http.StatusOK, quote)
}
