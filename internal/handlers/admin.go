// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cincoin-asia/cincoin-backend/internal/i18n"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/services"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	searchParams := services.UserSearchParams{
		PaginationParams: params,
		Role:             models.UserRole(c.Query("role")),
		Status:           models.UserStatus(c.Query("status")),
	}

	users, total, err := h.adminService.GetUsers(searchParams)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.adminService.UpdateUserStatus(id, adminID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserUpdated),
		"user":    user,
	})
}

// POST /admin/users/:id/kyc
func (h *AdminHandler) VerifyKYC(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
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

	user, err := h.adminService.VerifyKYC(id, adminID, req.Approve)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
		"user":    user,
	})
}

// GET /admin/commissions
func (h *AdminHandler) GetCommissions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var referrerID *uuid.UUID
	if idStr := c.Query("referrer_id"); idStr != "" {
		if id, err := uuid.Parse(idStr); err == nil {
			referrerID = &id
		}
	}

	commissions, total, err := h.adminService.GetCommissions(referrerID, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(commissions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /referrals (authenticated user's own referrals)
func (h *AdminHandler) GetMyReferrals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	referrals, err := h.adminService.GetReferrals(userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"referrals": referrals})
}

// GET /referrals/commissions (authenticated user's own earnings)
func (h *AdminHandler) GetMyCommissions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	commissions, total, err := h.adminService.GetCommissions(&userID, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(commissions, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"settings": settings})
}

// PUT /admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateSetting(adminID, &req); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminSettingsUpdated),
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	logs, total, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}
