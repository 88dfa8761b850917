package api

import (
	"errors"
	"net/http"

	reqdto "jobfair-booking/internal/handler/dto/request"
	resdto "jobfair-booking/internal/handler/dto/response"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/usecase/commands"
	"jobfair-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CompanyHandler struct {
	companyCommands commands.CompanyCommands
	companyQueries  queries.CompanyQueries
}

func NewCompanyHandler(companyCommands commands.CompanyCommands, companyQueries queries.CompanyQueries) *CompanyHandler {
	return &CompanyHandler{
		companyCommands: companyCommands,
		companyQueries:  companyQueries,
	}
}

// @Summary List companies
// @Description List exhibiting companies
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort key (name or created_at)"
// @Success 200 {array} resdto.CompanyResponse
// @Failure 401 {object} map[string]string
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var req reqdto.ListCompaniesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	views, err := h.companyQueries.List(c.Request.Context(), queries.ListCompaniesParams{
		Page:  req.Page,
		Limit: req.Limit,
		Sort:  req.Sort,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCompanyViews(views))
}

// @Summary Get company
// @Description Get a company by ID
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} resdto.CompanyResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	view, err := h.companyQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCompanyView(view))
}

// @Summary Create company
// @Description Register an exhibiting company (admin only)
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CompanyRequest true "Company"
// @Success 201 {object} resdto.CompanyResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req reqdto.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.companyCommands.Create(c.Request.Context(), companyParams(req))
	if err != nil {
		h.writeCompanyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCompanyView(view))
}

// @Summary Update company
// @Description Update an exhibiting company's profile (admin only)
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param request body reqdto.CompanyRequest true "Company"
// @Success 200 {object} resdto.CompanyResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	var req reqdto.CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.companyCommands.Update(c.Request.Context(), id, companyParams(req))
	if err != nil {
		h.writeCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCompanyView(view))
}

// @Summary Delete company
// @Description Delete a company together with its bookings and reserved slots (admin only)
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID format"})
		return
	}

	if err := h.companyCommands.Delete(c.Request.Context(), id); err != nil {
		h.writeCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}

func (h *CompanyHandler) writeCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrCompanyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
	case errors.Is(err, errs.ErrCompanyNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Company name already taken"})
	case errors.Is(err, errs.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func companyParams(req reqdto.CompanyRequest) commands.CompanyParams {
	return commands.CompanyParams{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Tel:         req.Tel,
		Website:     req.Website,
	}
}
