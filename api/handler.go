package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/2492dfd/stockLog-final/i18n"
	"github.com/2492dfd/stockLog-final/tradelog"
)

type MonthQuery struct {
	Year  int `form:"year" binding:"required"`
	Month int `form:"month" binding:"required"`
}

type YearQuery struct {
	Year int `form:"year" binding:"required"`
}

type DayQuery struct {
	Date string `form:"date" binding:"required"`
}

type StockQuery struct {
	Name string `form:"name" binding:"required"`
}

func (h *Handler) WriteTradeLog(c *gin.Context) {
	var req tradelog.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	id, err := h.logs.Write(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) UpdateTradeLog(c *gin.Context) {
	var req tradelog.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	log, err := h.logs.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *Handler) DeleteTradeLog(c *gin.Context) {
	if err := h.logs.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetTradeLog(c *gin.Context) {
	log, err := h.logs.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *Handler) Analyze(c *gin.Context) {
	feedback, err := h.analysis.Analyze(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// ImportCSV imports the multipart "file" field for the caller.
func (h *Handler) ImportCSV(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	report, err := h.importer.ProcessReader(c.Request.Context(), f, userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Journal(c *gin.Context) {
	logs, err := h.agg.Journal(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) ByStock(c *gin.Context) {
	var q StockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	logs, err := h.agg.ByStock(c.Request.Context(), userID(c), q.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) Daily(c *gin.Context) {
	var q DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(c.GetString(langKey), "invalid_request"), "field": "date"})
		return
	}
	logs, err := h.agg.Daily(c.Request.Context(), userID(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *Handler) ListBrokers(c *gin.Context) {
	c.JSON(http.StatusOK, tradelog.Brokers())
}

func (h *Handler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, tradelog.Tags())
}
