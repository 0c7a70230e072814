package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// monthly and yearly wrap the query binding shared by the report routes.
func monthly(c *gin.Context, f func(q MonthQuery) (any, error)) {
	var q MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	out, err := f(q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func yearly(c *gin.Context, f func(q YearQuery) (any, error)) {
	var q YearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	out, err := f(q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) MonthlySimple(c *gin.Context) {
	monthly(c, func(q MonthQuery) (any, error) {
		return h.agg.MonthlySimple(c.Request.Context(), userID(c), q.Year, q.Month)
	})
}

func (h *Handler) MonthlyDetail(c *gin.Context) {
	monthly(c, func(q MonthQuery) (any, error) {
		return h.agg.MonthlyDetail(c.Request.Context(), userID(c), q.Year, q.Month)
	})
}

func (h *Handler) MonthlySummary(c *gin.Context) {
	monthly(c, func(q MonthQuery) (any, error) {
		return h.agg.MonthlySummary(c.Request.Context(), userID(c), q.Year, q.Month)
	})
}

func (h *Handler) DaysWithTrades(c *gin.Context) {
	monthly(c, func(q MonthQuery) (any, error) {
		return h.agg.DaysWithTrades(c.Request.Context(), userID(c), q.Year, q.Month)
	})
}

func (h *Handler) DirectionsByDay(c *gin.Context) {
	monthly(c, func(q MonthQuery) (any, error) {
		return h.agg.DirectionsByDay(c.Request.Context(), userID(c), q.Year, q.Month)
	})
}

func (h *Handler) YearlySimple(c *gin.Context) {
	yearly(c, func(q YearQuery) (any, error) {
		return h.agg.YearlySimple(c.Request.Context(), userID(c), q.Year)
	})
}

func (h *Handler) YearlyDetail(c *gin.Context) {
	yearly(c, func(q YearQuery) (any, error) {
		return h.agg.YearlyDetail(c.Request.Context(), userID(c), q.Year)
	})
}

func (h *Handler) YearlySummary(c *gin.Context) {
	yearly(c, func(q YearQuery) (any, error) {
		return h.agg.YearlySummary(c.Request.Context(), userID(c), q.Year)
	})
}

func (h *Handler) MonthlyBreakdown(c *gin.Context) {
	yearly(c, func(q YearQuery) (any, error) {
		return h.agg.MonthlyBreakdown(c.Request.Context(), userID(c), q.Year)
	})
}
