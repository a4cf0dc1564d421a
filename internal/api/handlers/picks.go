package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dailymatch-engine/internal/logging"
	"dailymatch-engine/internal/picks"
	"dailymatch-engine/pkg/models"
	"dailymatch-engine/pkg/utils"
)

// DailyPicksHandler serves the candidate's pick set for the current logical
// day, regenerating it when stale.
func DailyPicksHandler(scheduler *picks.Scheduler) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.L().With(zap.String("request_id", requestID))

		candidateID := c.Param("id")
		if candidateID == "" {
			return writeEngineError(c, logger, requestID, "daily picks rejected",
				utils.NewBadRequestError("candidate id is required"))
		}

		response, err := scheduler.GetDailyPicks(c.Request().Context(), candidateID)
		if err != nil {
			return writeEngineError(c, logger, requestID, "daily picks failed", err)
		}

		response.RequestID = requestID

		logger.Info("daily picks served",
			zap.String("candidate_id", candidateID),
			zap.Int("picks", len(response.Picks)))

		return c.JSON(http.StatusOK, response)
	}
}

// RecordActivityHandler applies a qualifying activity event to the
// candidate's streak.
func RecordActivityHandler(scheduler *picks.Scheduler) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.L().With(zap.String("request_id", requestID))

		candidateID := c.Param("id")
		if candidateID == "" {
			return writeEngineError(c, logger, requestID, "activity event rejected",
				utils.NewBadRequestError("candidate id is required"))
		}

		info, err := scheduler.RecordActivity(c.Request().Context(), candidateID)
		if err != nil {
			return writeEngineError(c, logger, requestID, "activity event failed", err)
		}

		return c.JSON(http.StatusOK, map[string]any{
			"streak":     info,
			"request_id": requestID,
		})
	}
}

// writeEngineError maps engine errors onto the typed JSON error shape.
// Untyped errors are treated as internal server errors.
func writeEngineError(c echo.Context, logger *zap.Logger, requestID, message string, err error) error {
	var custom *utils.CustomError
	if !errors.As(err, &custom) {
		custom = utils.NewInternalServerError(err.Error())
	}

	if custom.Code >= http.StatusInternalServerError {
		logger.Error(message, zap.Error(err))
	} else {
		logger.Warn(message, zap.Error(err))
	}

	return c.JSON(custom.Code, models.ErrorResponse{
		Error:     http.StatusText(custom.Code),
		Message:   custom.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
