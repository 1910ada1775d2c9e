// internal/handlers/bank.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cincoin-asia/cincoin-backend/internal/i18n"
	"github.com/cincoin-asia/cincoin-backend/internal/services"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type BankHandler struct {
	bankService *services.BankService
}

func NewBankHandler(bankService *services.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// GET /bank/assets
func (h *BankHandler) GetAssets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.bankService.GetAssets(userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"bank": summary})
}

// POST /bank/invest
func (h *BankHandler) Invest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.InvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	asset, err := h.bankService.Invest(userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBankInvestSuccess),
		"asset":   asset,
	})
}

// POST /bank/assets/:id/redeem
func (h *BankHandler) Redeem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		AmountBRL float64 `json:"amount_brl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "amount_brl is required", nil)
		return
	}

	asset, err := h.bankService.Redeem(userID, id, req.AmountBRL)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"asset": asset})
}

// POST /bank/card
func (h *BankHandler) RequestCard(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := h.bankService.RequestCard(userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBankCardRequested),
		"card":    card,
	})
}
