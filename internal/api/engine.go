package api

import (
	"net/http"
	"path/filepath"

	"github.com/LJTian/InspireFeed/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewEngine 组装中间件、路由，以及可选的前端静态文件托管
func NewEngine(cfg *config.Config, s *Server, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(log), Metrics())

	// 若配置了全局访问密码，则启用 Basic Auth 保护
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	s.RegisterRoutes(r)

	// 若配置了前端目录，则托管 SPA 静态文件并做 fallback
	if cfg.WebRoot != "" {
		assetsDir := filepath.Join(cfg.WebRoot, "assets")
		indexFile := filepath.Join(cfg.WebRoot, "index.html")
		r.Static("/assets", assetsDir)
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet {
				c.Status(http.StatusNotFound)
				return
			}
			// SPA：未匹配 API 的 GET 均返回 index.html
			c.File(indexFile)
		})
	}
	return r
}
