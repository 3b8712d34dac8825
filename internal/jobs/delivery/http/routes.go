package http

import (
	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/labstack/echo/v4"
)

func MapJobRoutes(e *echo.Echo, h jobs.Handler) {
	e.POST("/process_videos", h.ProcessVideos())
	e.GET("/download/:job_id", h.Download())
	e.POST("/cleanup", h.Cleanup())
	e.POST("/analyze", h.Analyze())
}
