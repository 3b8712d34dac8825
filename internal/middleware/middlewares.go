package middleware

import (
	"fmt"
	"net/http"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const defaultMaxUploadMB = 500

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, origins: origins, logger: logger}
}

func (mw *MiddlewareManager) CORS() echo.MiddlewareFunc {
	origins := mw.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID},
		MaxAge:       300,
	})
}

// BodyLimit caps request bodies at Server.MaxUploadMB megabytes.
func (mw *MiddlewareManager) BodyLimit() echo.MiddlewareFunc {
	limit := defaultMaxUploadMB
	if mw.cfg != nil && mw.cfg.Server.MaxUploadMB > 0 {
		limit = mw.cfg.Server.MaxUploadMB
	}
	return middleware.BodyLimit(fmt.Sprintf("%dM", limit))
}
