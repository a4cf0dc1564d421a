package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dailymatch-engine/internal/logging"
	"dailymatch-engine/internal/matching"
	"dailymatch-engine/pkg/models"
	"dailymatch-engine/pkg/utils"
)

// ScoreHandler evaluates one candidate against one listing outside the
// daily-pick flow, e.g. for a dashboard preview.
func ScoreHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.L().With(zap.String("request_id", requestID))

		var req models.ScoreRequest
		if err := c.Bind(&req); err != nil {
			return writeEngineError(c, logger, requestID, "failed to bind score request",
				utils.NewBadRequestError("Invalid request format"))
		}

		if err := validate.Struct(&req); err != nil {
			return writeEngineError(c, logger, requestID, "score request validation failed",
				utils.NewValidationError(err.Error()))
		}

		profile := matching.Normalize(&req.Candidate)
		match := matching.Score(profile, &req.Opportunity)

		return c.JSON(http.StatusOK, models.ScoreResponse{
			Match:     match,
			RequestID: requestID,
		})
	}
}
