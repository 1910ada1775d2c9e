// internal/handlers/company.go
package handlers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cincoin-asia/cincoin-backend/internal/i18n"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/services"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

// CompanyHandler serves the Cinbusca directory and the company registration
// workflow.
type CompanyHandler struct {
	companyService *services.CompanyService
	storageService *services.StorageService
}

func NewCompanyHandler(companyService *services.CompanyService, storageService *services.StorageService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		storageService: storageService,
	}
}

// GET /companies
func (h *CompanyHandler) GetCompanies(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	searchParams := services.CompanySearchParams{
		PaginationParams: params,
		City:             c.Query("city"),
	}

	roleStr, _ := utils.GetUserRoleFromContext(c)
	includeAll := roleStr == string(models.UserRoleAdmin)
	if includeAll {
		searchParams.Status = models.CompanyStatus(c.Query("status"))
	}

	companies, total, err := h.companyService.GetCompanies(searchParams, includeAll)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(companies, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid company ID", nil)
		return
	}

	company, err := h.companyService.GetCompany(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"company": company})
}

// POST /companies
func (h *CompanyHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	company, err := h.companyService.Register(ownerID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCompanyCreated),
		"company": company,
	})
}

// POST /companies/:id/documents
// Multipart upload of the CNPJ card and owner document photo.
func (h *CompanyHandler) UploadDocuments(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid company ID", nil)
		return
	}
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	options := h.storageService.UploadOptionsFor("company_docs")
	docs := &services.CompanyDocuments{}

	if files := form.File["cnpj_card"]; len(files) > 0 {
		result, err := h.uploadOne(files[0], options)
		if err != nil {
			utils.ServiceErrorResponse(c, err)
			return
		}
		docs.CNPJCardURL = result.Key
	}
	if files := form.File["document_photo"]; len(files) > 0 {
		result, err := h.uploadOne(files[0], options)
		if err != nil {
			utils.ServiceErrorResponse(c, err)
			return
		}
		docs.DocumentPhotoURL = result.Key
	}

	company, err := h.companyService.AttachDocuments(id, ownerID, docs)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"company": company,
	})
}

// GET /admin/companies/:id/documents
func (h *CompanyHandler) GetDocuments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid company ID", nil)
		return
	}

	docs, err := h.companyService.DocumentPreview(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"documents": docs})
}

// POST /admin/companies/:id/review
func (h *CompanyHandler) Review(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid company ID", nil)
		return
	}
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	company, err := h.companyService.Review(id, adminID, req.Approve)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	messageKey := i18n.KeyCompanyRejected
	if req.Approve {
		messageKey = i18n.KeyCompanyApproved
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"company": company,
	})
}

func (h *CompanyHandler) uploadOne(fileHeader *multipart.FileHeader, options services.UploadOptions) (*services.UploadResult, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return h.storageService.Upload(file, fileHeader, options)
}
