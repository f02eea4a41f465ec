package instructor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/service"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

type OptionsController struct {
	optionsService service.OptionsService
}

func NewOptionsController(optionsService service.OptionsService) *OptionsController {
	return &OptionsController{optionsService: optionsService}
}

// GetResolvedOptions godoc
// @Summary (Instructor) Resolve the effective chat options for an assignment
// @Description Walks override -> section default -> global default -> built-in; the response also names the source so the panel can seed "custom" editing from the currently displayed values.
// @Tags Instructor - Options
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Success 200 {object} dto.ResolvedOptionsDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/options [get]
func (c *OptionsController) GetResolvedOptions(ctx *gin.Context) {
	sectionID, caseID := ctx.Param("section_id"), ctx.Param("case_id")
	opts, source, err := c.optionsService.ResolveEffective(sectionID, caseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	resp := dto.ResolvedOptionsDTO{SectionID: sectionID, CaseID: caseID, Source: source}
	if err := copier.Copy(&resp.Options, &opts); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to prepare options response"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SetCustomOptions godoc
// @Summary (Instructor) Give an assignment its own complete options record
// @Tags Instructor - Options
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Param options body dto.ChatOptionsDTO true "Complete options record"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/options [put]
func (c *OptionsController) SetCustomOptions(ctx *gin.Context) {
	var req dto.ChatOptionsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid options payload", Details: []string{err.Error()}})
		return
	}
	var opts model.ChatOptions
	if err := copier.Copy(&opts, &req); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read options payload"})
		return
	}
	if err := c.optionsService.SetCustom(ctx.Param("section_id"), ctx.Param("case_id"), opts); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "custom options saved"})
}

// ClearCustomOptions godoc
// @Summary (Instructor) Revert an assignment to inherited options
// @Description Drops the override; later edits to the applicable default flow through again.
// @Tags Instructor - Options
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/options [delete]
func (c *OptionsController) ClearCustomOptions(ctx *gin.Context) {
	if err := c.optionsService.ClearCustom(ctx.Param("section_id"), ctx.Param("case_id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "options reverted to defaults"})
}

// SaveAsDefault godoc
// @Summary (Instructor) Save an options record as a section or global default
// @Description Existing per-assignment overrides are not touched.
// @Tags Instructor - Options
// @Accept json
// @Produce json
// @Param default body dto.SaveDefaultDTO true "Scope and complete options record"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /instructor/options/defaults [post]
func (c *OptionsController) SaveAsDefault(ctx *gin.Context) {
	var req dto.SaveDefaultDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid default payload", Details: []string{err.Error()}})
		return
	}
	var opts model.ChatOptions
	if err := copier.Copy(&opts, &req.Options); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read options payload"})
		return
	}
	if err := c.optionsService.SaveAsDefault(req.Scope, opts); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "default saved"})
}

// ApplyToSectionCases godoc
// @Summary (Instructor) Copy this assignment's resolved options to every case in the section
// @Description Each target receives its own deep copy, not a live reference to a default.
// @Tags Instructor - Options
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Success 200 {object} dto.CopyResultDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/options/apply-section [post]
func (c *OptionsController) ApplyToSectionCases(ctx *gin.Context) {
	updated, err := c.optionsService.ApplyToSectionCases(ctx.Param("section_id"), ctx.Param("case_id"))
	if err != nil {
		log.Error().Err(err).Msg("ApplyToSectionCases: bulk copy failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CopyResultDTO{TargetsUpdated: updated})
}

// ApplyToAllSections godoc
// @Summary (Instructor) Copy this assignment's resolved options to every assignment in every section
// @Tags Instructor - Options
// @Produce json
// @Param section_id path string true "Section ID"
// @Param case_id path string true "Case ID"
// @Success 200 {object} dto.CopyResultDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id}/assignments/{case_id}/options/apply-all [post]
func (c *OptionsController) ApplyToAllSections(ctx *gin.Context) {
	updated, err := c.optionsService.ApplyToAllSections(ctx.Param("section_id"), ctx.Param("case_id"))
	if err != nil {
		log.Error().Err(err).Msg("ApplyToAllSections: bulk copy failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.CopyResultDTO{TargetsUpdated: updated})
}
