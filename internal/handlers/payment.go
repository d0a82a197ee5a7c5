// internal/handlers/payment.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

type PaymentHandler struct {
	purchaseService *services.PurchaseService
}

func NewPaymentHandler(purchaseService *services.PurchaseService) *PaymentHandler {
	return &PaymentHandler{
		purchaseService: purchaseService,
	}
}

// GET /marketplace
func (h *PaymentHandler) Marketplace(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	listings, err := h.purchaseService.Load(c.Request.Context(), ws)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page(c, h.purchaseService.View(ws, listings)))
}

// POST /marketplace/listings/:id/buy
func (h *PaymentHandler) Buy(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.MessageErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", i18n.M(i18n.KeyPurchaseInvalidListingID), nil)
		return
	}

	receipt, err := h.purchaseService.Buy(c.Request.Context(), ws, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, gin.H{
		"receipt":     receipt,
		"marketplace": h.purchaseService.View(ws, ws.Market.Listings()),
	}, receipt.Message)
}
