package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/table-reservation/scheduling"
	"github.com/yeremiapane/table-reservation/utils"
)

var errInternal = errors.New("internal server error")

// statusForKind maps a scheduler rejection to its HTTP status.
func statusForKind(kind scheduling.Kind) int {
	switch kind {
	case scheduling.KindReservationNotFound:
		return http.StatusNotFound
	case scheduling.KindSchedulingConflict, scheduling.KindDuplicateTableNumber:
		return http.StatusConflict
	case scheduling.KindTableNotFound,
		scheduling.KindInvalidTimestamp,
		scheduling.KindInvalidRequest,
		scheduling.KindInvalidStatus,
		scheduling.KindCapacityExceeded,
		scheduling.KindLeadTimeViolation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondSchedulingError writes err using the stable kind as the error code.
// Anything that is not a scheduler rejection is logged and hidden behind a
// generic 500.
func respondSchedulingError(c *gin.Context, err error) {
	var schedErr *scheduling.Error
	if !errors.As(err, &schedErr) {
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		utils.RespondErrorCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", errInternal, nil)
		return
	}

	var data interface{}
	if len(schedErr.Conflicts) > 0 {
		data = gin.H{"conflicts": schedErr.Conflicts}
	}
	utils.RespondErrorCode(c, statusForKind(schedErr.Kind), string(schedErr.Kind), schedErr, data)
}

func respondBadRequest(c *gin.Context, err error) {
	utils.RespondErrorCode(c, http.StatusBadRequest, string(scheduling.KindInvalidRequest), err, nil)
}
