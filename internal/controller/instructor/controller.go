package instructor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/service"
)

// respondError maps engine errors onto HTTP statuses: unknown keys are 404,
// rejected configuration is 400, anything else is a store failure.
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrCaseNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrScenarioNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrEvaluationNotFound),
		errors.Is(err, service.ErrScopeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAssignmentExists),
		errors.Is(err, service.ErrScenarioAssigned),
		errors.Is(err, service.ErrScenarioCase),
		errors.Is(err, service.ErrOrderNeedsAllReq),
		errors.Is(err, service.ErrBadSelectionMode),
		errors.Is(err, service.ErrBadManualStatus),
		errors.Is(err, service.ErrBadDateWindow),
		errors.Is(err, service.ErrBadDefaultScope),
		errors.Is(err, service.ErrEnrollmentClosed):
		status = http.StatusBadRequest
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
