// Package httpapi serves the soak status endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-ou-se/mstd/internal/soak"
	"github.com/m-ou-se/mstd/pkg/erroror"
)

// Rounds is the part of soak.Runner the API needs.
type Rounds interface {
	Latest() *soak.Latest
	RunRound(ctx context.Context) erroror.Of[soak.Report, error]
}

// NewRouter returns the routes:
//
//	GET  /healthz  liveness
//	GET  /report   latest completed report, 404 before the first round
//	POST /rounds   run a round now and return its report
//	GET  /metrics  Prometheus metrics gathered from g
func NewRouter(rounds Rounds, g prometheus.Gatherer, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/report", func(c *gin.Context) {
		p := rounds.Latest().Load()
		defer p.Reset()
		if p.IsNil() {
			c.JSON(http.StatusNotFound, gin.H{"error": "no round completed yet"})
			return
		}
		c.JSON(http.StatusOK, p.Get())
	})

	r.POST("/rounds", func(c *gin.Context) {
		res := rounds.RunRound(c.Request.Context())
		if !res.OK() {
			log.Warn("manual round aborted", "error", res.Err())
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": res.Err().Error()})
			return
		}
		rep := res.ValuePtr()
		status := http.StatusOK
		if !rep.Passed() {
			status = http.StatusInternalServerError
		}
		c.JSON(status, rep)
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))

	return r
}
