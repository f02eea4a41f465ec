package instructor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/service"
	"github.com/rs/zerolog/log"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CreateSection godoc
// @Summary (Instructor) Create a course section
// @Tags Instructor - Catalog
// @Accept json
// @Produce json
// @Param section body dto.SectionCreateDTO true "Section"
// @Success 201 {object} dto.SectionResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /instructor/sections [post]
func (c *CatalogController) CreateSection(ctx *gin.Context) {
	var req dto.SectionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid section payload", Details: []string{err.Error()}})
		return
	}
	section, err := c.catalogService.CreateSection(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateSection: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, section)
}

// UpdateSection godoc
// @Summary (Instructor) Update or soft-disable a section
// @Tags Instructor - Catalog
// @Accept json
// @Produce json
// @Param section_id path string true "Section ID"
// @Param section body dto.SectionUpdateDTO true "Fields to update"
// @Success 200 {object} dto.SectionResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/sections/{section_id} [patch]
func (c *CatalogController) UpdateSection(ctx *gin.Context) {
	var req dto.SectionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid section payload", Details: []string{err.Error()}})
		return
	}
	section, err := c.catalogService.UpdateSection(ctx.Param("section_id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, section)
}

// ListSections godoc
// @Summary (Instructor) List all sections
// @Tags Instructor - Catalog
// @Produce json
// @Success 200 {array} dto.SectionResponseDTO
// @Router /instructor/sections [get]
func (c *CatalogController) ListSections(ctx *gin.Context) {
	sections, err := c.catalogService.ListSections()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sections)
}

// CreateCase godoc
// @Summary (Instructor) Create a case study
// @Tags Instructor - Catalog
// @Accept json
// @Produce json
// @Param case body dto.CaseCreateDTO true "Case"
// @Success 201 {object} dto.CaseResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /instructor/cases [post]
func (c *CatalogController) CreateCase(ctx *gin.Context) {
	var req dto.CaseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid case payload", Details: []string{err.Error()}})
		return
	}
	courseCase, err := c.catalogService.CreateCase(req)
	if err != nil {
		log.Error().Err(err).Msg("CreateCase: service error")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, courseCase)
}

// UpdateCase godoc
// @Summary (Instructor) Update or soft-disable a case
// @Tags Instructor - Catalog
// @Accept json
// @Produce json
// @Param case_id path string true "Case ID"
// @Param case body dto.CaseUpdateDTO true "Fields to update"
// @Success 200 {object} dto.CaseResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /instructor/cases/{case_id} [patch]
func (c *CatalogController) UpdateCase(ctx *gin.Context) {
	var req dto.CaseUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid case payload", Details: []string{err.Error()}})
		return
	}
	courseCase, err := c.catalogService.UpdateCase(ctx.Param("case_id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courseCase)
}

// ListCases godoc
// @Summary (Instructor) List all cases
// @Tags Instructor - Catalog
// @Produce json
// @Success 200 {array} dto.CaseResponseDTO
// @Router /instructor/cases [get]
func (c *CatalogController) ListCases(ctx *gin.Context) {
	cases, err := c.catalogService.ListCases()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cases)
}

// EnrollStudent godoc
// @Summary (Instructor) Enroll a student
// @Description Section ref may be a section ID, an "other:" course label, or absent.
// @Tags Instructor - Catalog
// @Accept json
// @Produce json
// @Param student body dto.StudentDTO true "Student"
// @Success 201 {object} dto.StudentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /instructor/students [post]
func (c *CatalogController) EnrollStudent(ctx *gin.Context) {
	var req dto.StudentDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid student payload", Details: []string{err.Error()}})
		return
	}
	student, err := c.catalogService.EnrollStudent(req.FullName, req.Persona, req.SectionRef)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, student)
}
