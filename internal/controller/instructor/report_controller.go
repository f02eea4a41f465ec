package instructor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/service"
	"github.com/rs/zerolog/log"
)

type ReportController struct {
	rosterService     service.RosterService
	rollupService     service.RollupService
	evaluationService service.EvaluationService
}

func NewReportController(
	rosterService service.RosterService,
	rollupService service.RollupService,
	evaluationService service.EvaluationService,
) *ReportController {
	return &ReportController{
		rosterService:     rosterService,
		rollupService:     rollupService,
		evaluationService: evaluationService,
	}
}

// GetRoster godoc
// @Summary (Instructor) Partition all students into roster buckets
// @Tags Instructor - Reports
// @Produce json
// @Success 200 {object} dto.RosterDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /instructor/roster [get]
func (c *ReportController) GetRoster(ctx *gin.Context) {
	roster, err := c.rosterService.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("GetRoster: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, roster)
}

// GetSectionCounts godoc
// @Summary (Instructor) Per-section student counts
// @Tags Instructor - Reports
// @Produce json
// @Success 200 {object} map[string]int
// @Router /instructor/roster/counts [get]
func (c *ReportController) GetSectionCounts(ctx *gin.Context) {
	counts, err := c.rosterService.SectionCounts()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, counts)
}

// GetRollup godoc
// @Summary (Instructor) Per-attempt rollup for a scope
// @Description Scope is a section ID or the synthetic buckets "other_courses" / "unassigned". One row per evaluation, newest first, then one synthetic row per student without attempts.
// @Tags Instructor - Reports
// @Produce json
// @Param scope path string true "Section ID, other_courses, or unassigned"
// @Param case_id query string false "Restrict to one case"
// @Success 200 {array} dto.RollupRowDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/rollup/{scope} [get]
func (c *ReportController) GetRollup(ctx *gin.Context) {
	rows, err := c.rollupService.Rollup(ctx.Param("scope"), caseFilter(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

// GetStats godoc
// @Summary (Instructor) Section statistics over a rollup
// @Tags Instructor - Reports
// @Produce json
// @Param scope path string true "Section ID, other_courses, or unassigned"
// @Param case_id query string false "Restrict to one case"
// @Success 200 {object} dto.SectionStatsDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/rollup/{scope}/stats [get]
func (c *ReportController) GetStats(ctx *gin.Context) {
	stats, err := c.rollupService.RollupStats(ctx.Param("scope"), caseFilter(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// SetAllowRechat godoc
// @Summary (Instructor) Toggle re-chat permission on an evaluation
// @Description allow_rechat is the only field of an evaluation that may change after creation.
// @Tags Instructor - Reports
// @Accept json
// @Produce json
// @Param evaluation_id path int true "Evaluation ID"
// @Param body body dto.AllowRechatDTO true "New value"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/evaluations/{evaluation_id}/allow-rechat [put]
func (c *ReportController) SetAllowRechat(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("evaluation_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid evaluation ID format"})
		return
	}
	var req dto.AllowRechatDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid payload", Details: []string{err.Error()}})
		return
	}
	if err := c.evaluationService.SetAllowRechat(uint(id), req.AllowRechat); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "allow_rechat updated"})
}

func caseFilter(ctx *gin.Context) *string {
	if v := ctx.Query("case_id"); v != "" {
		return &v
	}
	return nil
}
