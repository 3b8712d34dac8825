package jobs

import "github.com/labstack/echo/v4"

type Handler interface {
	ProcessVideos() echo.HandlerFunc
	Download() echo.HandlerFunc
	Cleanup() echo.HandlerFunc
	Analyze() echo.HandlerFunc
}
