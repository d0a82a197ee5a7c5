// internal/handlers/license.go
package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
	listingService *services.ListingService
}

func NewLicenseHandler(licenseService *services.LicenseService, listingService *services.ListingService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
		listingService: listingService,
	}
}

// GET /my-licenses
func (h *LicenseHandler) GetMyLicenses(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	licenses, err := h.licenseService.MyLicenses(c.Request.Context(), ws, utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page(c, gin.H{"licenses": licenses}))
}

// GET /marketplace/add
func (h *LicenseHandler) ListingPage(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	entries, err := h.listingService.Load(c.Request.Context(), ws)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page(c, gin.H{
		"assets": h.listingService.View(entries, utils.GetLangFromContext(c)),
	}))
}

type listRequest struct {
	// Price is kept as entered, number or string; the service decides what
	// a valid price is.
	Price json.RawMessage `json:"price"`
}

func (r listRequest) priceInput() string {
	var s string
	if err := json.Unmarshal(r.Price, &s); err == nil {
		return s
	}
	return string(r.Price)
}

// POST /marketplace/add/:ipId
func (h *LicenseHandler) ListAsset(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	var req listRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	ipID := c.Param("ipId")
	if err := h.listingService.List(c.Request.Context(), ws, ipID, req.priceInput()); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, gin.H{
		"assets": h.listingService.View(ws.Listings.Entries(), utils.GetLangFromContext(c)),
	}, i18n.M(i18n.KeyListingSuccess))
}
