// internal/handlers/exchange.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cincoin-asia/cincoin-backend/internal/i18n"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/services"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type ExchangeHandler struct {
	exchangeService *services.ExchangeService
}

func NewExchangeHandler(exchangeService *services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// GET /exchange/price
func (h *ExchangeHandler) GetPrice(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"price":    h.exchangeService.TokenPrice(),
		"currency": models.CurrencyBRL,
	})
}

// PUT /admin/exchange/price
func (h *ExchangeHandler) SetPrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Price float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "price is required", nil)
		return
	}

	if err := h.exchangeService.SetTokenPrice(adminID, req.Price); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExchangePriceUpdated),
		"price":   req.Price,
	})
}

// POST /exchange/buy
func (h *ExchangeHandler) BuyTokens(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.BuyTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, err := h.exchangeService.BuyTokens(userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyExchangeBuySuccess),
		"transaction": transaction,
	})
}

// POST /exchange/sell-orders
func (h *ExchangeHandler) CreateSellOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateSellOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.exchangeService.CreateSellOrder(userID, &req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyExchangeSellQueued),
		"order":   order,
	})
}

// GET /exchange/sell-orders
func (h *ExchangeHandler) GetUserSellOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.exchangeService.GetUserSellOrders(userID, params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// DELETE /exchange/sell-orders/:id
func (h *ExchangeHandler) RemoveSellOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sell order ID", nil)
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	roleStr, _ := utils.GetUserRoleFromContext(c)
	if err := h.exchangeService.RemoveSellOrder(id, userID, models.UserRole(roleStr)); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySellOrderRemoved),
	})
}

// GET /exchange/queue?status=waiting
func (h *ExchangeHandler) GetQueue(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	orders, total, err := h.exchangeService.GetQueue(c.Query("status"), params)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /transparency
func (h *ExchangeHandler) GetTransparency(c *gin.Context) {
	report, err := h.exchangeService.GetTransparency()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"transparency": report})
}

// GET /exchange/queue/status
func (h *ExchangeHandler) GetQueueStatus(c *gin.Context) {
	status, err := h.exchangeService.GetQueueStatus()
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"queue": status})
}

// POST /admin/exchange/sell-orders/:id/advance
func (h *ExchangeHandler) AdvanceSellOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid sell order ID", nil)
		return
	}

	order, err := h.exchangeService.AdvanceSellOrder(id)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySellOrderAdvanced),
		"order":   order,
	})
}
