package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dailymatch-engine/internal/ingest"
	"dailymatch-engine/internal/logging"
	"dailymatch-engine/pkg/models"
	"dailymatch-engine/pkg/utils"
)

var validate = validator.New()

// IngestHandler accepts a batch of raw listing rows and feeds them through
// the deduplicator.
func IngestHandler(dedup *ingest.Deduplicator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestStart := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.L().With(zap.String("request_id", requestID))

		var req models.IngestRequest
		if err := c.Bind(&req); err != nil {
			return writeEngineError(c, logger, requestID, "failed to bind ingest request",
				utils.NewBadRequestError("Invalid request format"))
		}

		if err := validate.Struct(&req); err != nil {
			return writeEngineError(c, logger, requestID, "ingest request validation failed",
				utils.NewValidationError(err.Error()))
		}

		result, err := dedup.IngestBatch(c.Request().Context(), req.Rows)
		if err != nil {
			return writeEngineError(c, logger, requestID, "ingestion failed", err)
		}

		logger.Info("ingest batch processed",
			zap.Int("rows", len(req.Rows)),
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
			zap.Duration("duration", time.Since(requestStart)))

		return c.JSON(http.StatusOK, models.IngestResponse{
			Result:    *result,
			Duration:  time.Since(requestStart),
			RequestID: requestID,
		})
	}
}
