// internal/handlers/negotiation.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cincoin-asia/cincoin-backend/internal/i18n"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/services"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type NegotiationHandler struct {
	negotiationService *services.NegotiationService
}

func NewNegotiationHandler(negotiationService *services.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{negotiationService: negotiationService}
}

// POST /negotiations
func (h *NegotiationHandler) CreateNegotiation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	buyerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	negotiation, err := h.negotiationService.CreateNegotiation(buyerID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyNegotiationCreated),
		"negotiation": negotiation,
	})
}

// GET /negotiations
func (h *NegotiationHandler) GetNegotiations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	status := models.NegotiationStatus(c.Query("status"))

	negotiations, total, err := h.negotiationService.GetNegotiations(userID, status, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(negotiations, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /negotiations/:id
func (h *NegotiationHandler) GetNegotiation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid negotiation ID", nil)
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	negotiation, err := h.negotiationService.GetNegotiation(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	role, _ := utils.GetUserRoleFromContext(c)
	if negotiation.BuyerID != userID && negotiation.SellerID != userID && role != string(models.UserRoleAdmin) {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"negotiation": negotiation})
}

// POST /negotiations/:id/decide
func (h *NegotiationHandler) Decide(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid negotiation ID", nil)
		return
	}
	deciderID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.DecideNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	roleStr, _ := utils.GetUserRoleFromContext(c)
	negotiation, err := h.negotiationService.Decide(id, deciderID, models.UserRole(roleStr), &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	messageKey := i18n.KeyNegotiationRejected
	if req.Approve {
		messageKey = i18n.KeyNegotiationApproved
	}
	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, messageKey),
		"negotiation": negotiation,
	})
}
