package server

import (
	"context"
	"net/http"
	"time"

	"github.com/MetaBloxIO/otp_oracle/codec"
	"github.com/MetaBloxIO/otp_oracle/conf"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Handler produces the reply for a hex encoded request.
type Handler interface {
	ProcessHex(ctx context.Context, hexRequest string) codec.Reply
}

func InitRouter(handler Handler, conf *conf.Conf) *gin.Engine {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.IndentedJSON(http.StatusOK, Response{Code: 0, Data: "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.POST("/request", rateLimiter(conf.RateLimit, conf.RateBurst), func(c *gin.Context) {
		var body RequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.IndentedJSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Data: err.Error()})
			return
		}

		start := time.Now()
		reply := handler.ProcessHex(c.Request.Context(), body.Request)
		m.observe(reply, time.Since(start))

		data := ReplyData{
			Reply:     hexutil.Encode(codec.EncodeReply(reply.Type, reply.RequestID, reply.Payload)),
			Type:      uint8(reply.Type),
			RequestID: reply.RequestID.String(),
			Payload:   reply.Payload.String(),
		}
		c.IndentedJSON(http.StatusOK, Response{Code: 0, Data: data})
	})

	return router
}

// rateLimiter rejects requests beyond limit per second. A zero limit disables it.
func rateLimiter(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: http.StatusTooManyRequests, Data: "rate limited"})
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"client":  c.ClientIP(),
			"elapsed": time.Since(start),
		}).Debug("HTTP request")
	}
}
