package api

import (
	"context"
	"net/http"

	"github.com/LJTian/InspireFeed/internal/aggregator"
	"github.com/LJTian/InspireFeed/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// 对调用方只暴露这一种错误
const aggregationFailedMessage = "failed to fetch content"

type ContentAggregator interface {
	Aggregate(ctx context.Context) (*aggregator.Response, error)
}

type ProbeReporter interface {
	Results() []scheduler.ProbeResult
}

type Server struct {
	agg    ContentAggregator
	probes ProbeReporter
	logger *zap.Logger
}

// NewServer probes 可以为 nil（未启用探活）
func NewServer(agg ContentAggregator, probes ProbeReporter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{agg: agg, probes: probes, logger: logger}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/health/upstreams", s.upstreams)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/content", s.content)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) upstreams(c *gin.Context) {
	results := []scheduler.ProbeResult{}
	if s.probes != nil {
		results = s.probes.Results()
	}
	c.JSON(http.StatusOK, gin.H{"upstreams": results})
}

func (s *Server) content(c *gin.Context) {
	resp, err := s.agg.Aggregate(c.Request.Context())
	if err != nil {
		// 具体原因只写日志，不返回给调用方
		s.logger.Error("content aggregation failed",
			zap.String("request_id", requestIDFrom(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": aggregationFailedMessage})
		return
	}

	s.logger.Debug("content aggregated",
		zap.String("request_id", requestIDFrom(c)),
		zap.String("article_source", resp.ArticleSource),
		zap.Int("videos", len(resp.Videos)),
		zap.Int("articles", len(resp.Articles)),
		zap.Int("books", len(resp.Books)),
	)
	c.Header("Cache-Control", "no-store")
	c.Header("X-Article-Source", resp.ArticleSource)
	c.JSON(http.StatusOK, resp)
}
