package instructor

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/service"
	"github.com/rs/zerolog/log"
)

type AssignmentController struct {
	assignmentService   service.AssignmentService
	availabilityService service.AvailabilityService
	scenarioService     service.ScenarioService
}

func NewAssignmentController(
	assignmentService service.AssignmentService,
	availabilityService service.AvailabilityService,
	scenarioService service.ScenarioService,
) *AssignmentController {
	return &AssignmentController{
		assignmentService:   assignmentService,
		availabilityService: availabilityService,
		scenarioService:     scenarioService,
	}
}

// ListAssignments godoc
// @Summary (Instructor) List a section's case assignments
// @Description Availability is computed against the request instant and never cached.
// @Tags Instructor - Assignments
// @Produce json
// @Param section_id path string true "Section ID"
// @Success 200 {array} dto.AssignmentResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments [get]
func (c *AssignmentController) ListAssignments(ctx *gin.Context) {
	assignments, err := c.assignmentService.ListBySection(ctx.Param("section_id"), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

// CreateAssignment godoc
// @Summary (Instructor) Assign a case to a section
// @Tags Instructor - Assignments
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param assignment body dto.AssignmentCreateDTO true "Assignment"
// @Success 201 {object} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req dto.AssignmentCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment payload", Details: []string{err.Error()}})
		return
	}
	assignment, err := c.assignmentService.Assign(ctx.Param("section_id"), req)
	if err != nil {
		log.Warn().Err(err).Str("sectionID", ctx.Param("section_id")).Msg("CreateAssignment: rejected")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, assignment)
}

// UpdateAssignment godoc
// @Summary (Instructor) Update assignment scheduling and scenario settings
// @Tags Instructor - Assignments
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param assignment body dto.AssignmentUpdateDTO true "Fields to update"
// @Success 200 {object} dto.AssignmentResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id} [patch]
func (c *AssignmentController) UpdateAssignment(ctx *gin.Context) {
	var req dto.AssignmentUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid assignment payload", Details: []string{err.Error()}})
		return
	}
	assignment, err := c.assignmentService.Update(ctx.Param("section_id"), ctx.Param("case_id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignment)
}

// DeleteAssignment godoc
// @Summary (Instructor) Unassign a case from a section
// @Description The assignment row is removed outright; evaluations survive.
// @Tags Instructor - Assignments
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id} [delete]
func (c *AssignmentController) DeleteAssignment(ctx *gin.Context) {
	if err := c.assignmentService.Unassign(ctx.Param("section_id"), ctx.Param("case_id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "assignment removed"})
}

// ActivateAssignment godoc
// @Summary (Instructor) Make this the section's current default case
// @Tags Instructor - Assignments
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/activate [post]
func (c *AssignmentController) ActivateAssignment(ctx *gin.Context) {
	if err := c.assignmentService.Activate(ctx.Param("section_id"), ctx.Param("case_id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "assignment activated"})
}

// SetManualStatus godoc
// @Summary (Instructor) Force an assignment open or closed
// @Description manually_opened/manually_closed override the date window; auto restores it.
// @Tags Instructor - Assignments
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param status body dto.ManualStatusDTO true "Manual status"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/manual-status [put]
func (c *AssignmentController) SetManualStatus(ctx *gin.Context) {
	var req dto.ManualStatusDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid status payload", Details: []string{err.Error()}})
		return
	}
	if err := c.availabilityService.SetManualStatus(ctx.Param("section_id"), ctx.Param("case_id"), req.ManualStatus); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "manual status updated"})
}

// CreateScenario godoc
// @Summary (Instructor) Create a scenario variant for a case
// @Tags Instructor - Scenarios
// @Accept json
// @Produce json
// @Param scenario body dto.ScenarioCreateDTO true "Scenario"
// @Success 201 {object} dto.ScenarioResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/scenarios [post]
func (c *AssignmentController) CreateScenario(ctx *gin.Context) {
	var req dto.ScenarioCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid scenario payload", Details: []string{err.Error()}})
		return
	}
	scenario, err := c.scenarioService.CreateScenario(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, scenario)
}

// ListCaseScenarios godoc
// @Summary (Instructor) List a case's scenario variants
// @Tags Instructor - Scenarios
// @Produce json
// @Param case_id path string true "Case ID"
// @Success 200 {array} dto.ScenarioResponseDTO
// @Router /instructor/cases/{case_id}/scenarios [get]
func (c *AssignmentController) ListCaseScenarios(ctx *gin.Context) {
	scenarios, err := c.scenarioService.ListByCase(ctx.Param("case_id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, scenarios)
}

// AssignScenario godoc
// @Summary (Instructor) Attach a scenario to an assignment
// @Tags Instructor - Scenarios
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param scenario body dto.ScenarioAssignDTO true "Scenario to assign"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/scenarios [post]
func (c *AssignmentController) AssignScenario(ctx *gin.Context) {
	var req dto.ScenarioAssignDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid scenario payload", Details: []string{err.Error()}})
		return
	}
	if err := c.scenarioService.Assign(ctx.Param("section_id"), ctx.Param("case_id"), req.ScenarioID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.MessageResponse{Message: "scenario assigned"})
}

// UnassignScenario godoc
// @Summary (Instructor) Detach a scenario from an assignment
// @Description Evaluations already recorded against the scenario are kept.
// @Tags Instructor - Scenarios
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param scenario_id path string true "Scenario ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/scenarios/{scenario_id} [delete]
func (c *AssignmentController) UnassignScenario(ctx *gin.Context) {
	if err := c.scenarioService.Unassign(ctx.Param("section_id"), ctx.Param("case_id"), ctx.Param("scenario_id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "scenario unassigned"})
}

// ReorderScenarios godoc
// @Summary (Instructor) Reorder an assignment's scenarios
// @Tags Instructor - Scenarios
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param order body dto.ScenarioReorderDTO true "Every assigned scenario ID in the new order"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/scenarios/order [put]
func (c *AssignmentController) ReorderScenarios(ctx *gin.Context) {
	var req dto.ScenarioReorderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid reorder payload", Details: []string{err.Error()}})
		return
	}
	if err := c.scenarioService.Reorder(ctx.Param("section_id"), ctx.Param("case_id"), req.ScenarioIDs); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "scenarios reordered"})
}

// ScenarioEligibility godoc
// @Summary (Instructor) Preview a student's scenario eligibility
// @Tags Instructor - Scenarios
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param student_id query string true "Student ID"
// @Success 200 {array} dto.EligibleScenarioDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/scenarios/eligibility [get]
func (c *AssignmentController) ScenarioEligibility(ctx *gin.Context) {
	studentID := ctx.Query("student_id")
	if studentID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "student_id query parameter is required"})
		return
	}
	eligible, err := c.scenarioService.Eligible(ctx.Param("section_id"), ctx.Param("case_id"), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, eligible)
}
