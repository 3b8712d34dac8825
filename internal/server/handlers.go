package server

import (
	"net/http"

	jobsHttp "github.com/amankumarsingh77/video-transcriber/internal/jobs/delivery/http"
	"github.com/amankumarsingh77/video-transcriber/internal/middleware"
	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	jobsUC, closeEngine, err := NewJobsUseCase(s.cfg, s.redisClient, s.s3Client, s.logger)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, closeEngine)

	jobsHandlers := jobsHttp.NewJobsHandler(jobsUC, s.logger)
	mw := middleware.NewMiddlewareManager(s.cfg, s.cfg.Server.Origins, s.logger)

	e.Use(echoMiddleware.RequestID())
	e.Use(mw.RequestLoggerMiddleware)
	e.Use(echoMiddleware.RecoverWithConfig(echoMiddleware.RecoverConfig{
		StackSize:         1 << 10,
		DisablePrintStack: true,
	}))
	e.Use(mw.CORS())
	e.Use(mw.BodyLimit())

	jobsHttp.MapJobRoutes(e, jobsHandlers)
	e.GET("/health", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
