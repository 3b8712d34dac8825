package http

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const internalErrorMessage = "internal server error"

type jobsHandler struct {
	jobsUC jobs.UseCase
	logger logger.Logger
}

func NewJobsHandler(jobsUC jobs.UseCase, logger logger.Logger) jobs.Handler {
	return &jobsHandler{
		jobsUC: jobsUC,
		logger: logger,
	}
}

func (h *jobsHandler) ProcessVideos() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.BatchRequest{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		results, err := h.jobsUC.RunBatch(c.Request().Context(), input)
		if err != nil {
			return h.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, models.BatchResponse{Results: results})
	}
}

func (h *jobsHandler) Download() echo.HandlerFunc {
	return func(c echo.Context) error {
		path, err := h.jobsUC.Locate(c.Request().Context(), c.Param("job_id"))
		if err != nil {
			return h.errorResponse(c, err)
		}
		return c.Attachment(path, filepath.Base(path))
	}
}

func (h *jobsHandler) Cleanup() echo.HandlerFunc {
	return func(c echo.Context) error {
		n, err := h.jobsUC.PurgeAll(c.Request().Context())
		if err != nil {
			return h.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("%d files removed", n),
		})
	}
}

func (h *jobsHandler) Analyze() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.AnalyzeRequest{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		res, err := h.jobsUC.Analyze(c.Request().Context(), input)
		if err != nil {
			return h.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

func (h *jobsHandler) errorResponse(c echo.Context, err error) error {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": vErr.Message})
	case errors.Is(err, models.ErrArtifactNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": models.ErrArtifactNotFound.Error()})
	default:
		h.logger.Errorf("RequestID: %s, %s %s error: %v", utils.GetRequestID(c), c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": internalErrorMessage})
	}
}
