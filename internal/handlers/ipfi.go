// internal/handlers/ipfi.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

type IPFiHandler struct {
	ipfiService *services.IPFiService
}

func NewIPFiHandler(ipfiService *services.IPFiService) *IPFiHandler {
	return &IPFiHandler{ipfiService: ipfiService}
}

// GET /ipfi-dashboard
func (h *IPFiHandler) Dashboard(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	assets, err := h.ipfiService.Load(c.Request.Context(), ws)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page(c, gin.H{"assets": h.ipfiService.View(ws, assets)}))
}

// POST /ipfi-dashboard/:ipId/claim
func (h *IPFiHandler) Claim(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	outcome, err := h.ipfiService.Claim(c.Request.Context(), ws, c.Param("ipId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, gin.H{
		"claim":  outcome,
		"assets": h.ipfiService.View(ws, ws.Revenue.Assets()),
	}, outcome.Message)
}
