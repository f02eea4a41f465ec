package chat

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/service"
	"github.com/rs/zerolog/log"
)

// ChatController is the surface the chat runtime talks to: admission before
// an attempt, the finish notice when a chat ends, and transcript submission
// for evaluation.
type ChatController struct {
	admissionService  service.AdmissionService
	evaluationService service.EvaluationService
}

func NewChatController(admissionService service.AdmissionService, evaluationService service.EvaluationService) *ChatController {
	return &ChatController{admissionService: admissionService, evaluationService: evaluationService}
}

// CheckAdmission godoc
// @Summary (Chat) May this student begin a new attempt now?
// @Description Composes the availability gate, options resolver and scenario selector. A denial is a 200 with allowed=false; only unknown keys or store failures are errors.
// @Tags Chat Runtime
// @Accept json
// @Produce json
// @Param request body dto.AdmissionRequestDTO true "Admission request"
// @Success 200 {object} dto.AdmissionDecisionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/admission [post]
func (c *ChatController) CheckAdmission(ctx *gin.Context) {
	var req dto.AdmissionRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid admission payload", Details: []string{err.Error()}})
		return
	}
	decision, err := c.admissionService.Admit(req, time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, decision)
}

// ChatFinished godoc
// @Summary (Chat) Record that a chat ended
// @Description Until an evaluation row lands the student reports as in_progress.
// @Tags Chat Runtime
// @Accept json
// @Produce json
// @Param request body dto.ChatFinishedDTO true "Finish notice"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /chat/finished [post]
func (c *ChatController) ChatFinished(ctx *gin.Context) {
	var req dto.ChatFinishedDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid finish payload", Details: []string{err.Error()}})
		return
	}
	if err := c.evaluationService.MarkFinished(req); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "chat finish recorded"})
}

// SubmitEvaluation godoc
// @Summary (Chat) Score a finished transcript and append the evaluation
// @Tags Chat Runtime
// @Accept json
// @Produce json
// @Param request body dto.EvaluationSubmitDTO true "Transcript submission"
// @Success 201 {object} dto.EvaluationResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Evaluator failure; no row was written"
// @Router /chat/evaluations [post]
func (c *ChatController) SubmitEvaluation(ctx *gin.Context) {
	var req dto.EvaluationSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid evaluation payload", Details: []string{err.Error()}})
		return
	}
	evaluation, err := c.evaluationService.Evaluate(req)
	if err != nil {
		log.Error().Err(err).Str("studentID", req.StudentID).Msg("SubmitEvaluation: failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, evaluation)
}

func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrCaseNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrScenarioNotFound),
		errors.Is(err, service.ErrStudentNotFound):
		status = http.StatusNotFound
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
