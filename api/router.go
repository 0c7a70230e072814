package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2492dfd/stockLog-final/aggregate"
	"github.com/2492dfd/stockLog-final/analysis"
	"github.com/2492dfd/stockLog-final/ingest"
	"github.com/2492dfd/stockLog-final/tradelog"
)

// Deps are the services behind the HTTP handlers.
type Deps struct {
	TradeLogs  *tradelog.Service
	Aggregator *aggregate.Aggregator
	Analysis   *analysis.Service
	Importer   *ingest.Processor
}

type Handler struct {
	logs     *tradelog.Service
	agg      *aggregate.Aggregator
	analysis *analysis.Service
	importer *ingest.Processor
}

func SetupRoutes(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), Language())

	h := &Handler{logs: d.TradeLogs, agg: d.Aggregator, analysis: d.Analysis, importer: d.Importer}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	stocks := api.Group("/stocks")
	stocks.GET("/search", h.SearchStocks)
	stocks.GET("/price", h.GetPrice)

	logs := api.Group("/tradelogs")
	logs.GET("/brokers", h.ListBrokers)
	logs.GET("/tags", h.ListTags)

	owned := logs.Group("", RequireUser())
	owned.POST("", h.WriteTradeLog)
	owned.POST("/import", h.ImportCSV)
	owned.GET("/journal", h.Journal)
	owned.GET("/stock", h.ByStock)
	owned.GET("/day", h.Daily)

	owned.GET("/monthly/simple", h.MonthlySimple)
	owned.GET("/monthly/detail", h.MonthlyDetail)
	owned.GET("/monthly/summary", h.MonthlySummary)
	owned.GET("/monthly/days-with-trades", h.DaysWithTrades)
	owned.GET("/monthly/directions", h.DirectionsByDay)

	owned.GET("/yearly/simple", h.YearlySimple)
	owned.GET("/yearly/detail", h.YearlyDetail)
	owned.GET("/yearly/summary", h.YearlySummary)
	owned.GET("/yearly/breakdown", h.MonthlyBreakdown)

	owned.GET("/:id", h.GetTradeLog)
	owned.PUT("/:id", h.UpdateTradeLog)
	owned.DELETE("/:id", h.DeleteTradeLog)
	owned.POST("/:id/analyze", h.Analyze)

	return r
}
