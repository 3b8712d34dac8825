package middleware

import (
	"time"

	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/labstack/echo/v4"
)

// RequestLoggerMiddleware logs one line per request once the handler has run.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		mw.logger.Infow("request",
			"request_id", utils.GetRequestID(c),
			"method", req.Method,
			"uri", req.RequestURI,
			"status", c.Response().Status,
			"size", c.Response().Size,
			"latency", time.Since(start).String(),
			"ip", utils.GetIPAddress(c),
		)
		return nil
	}
}
