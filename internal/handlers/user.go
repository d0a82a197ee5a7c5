// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/middleware"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

type landingView struct {
	Headline string `json:"headline"`
	Tagline  string `json:"tagline"`
	Login    string `json:"login"`
	Signup   string `json:"signup"`
}

var landing = landingView{
	Headline: "Register, license and trade your IP on chain",
	Tagline:  "Mint assets, list licenses and collect revenue from one console.",
	Login:    middleware.LoginPath,
	Signup:   "/signup",
}

// GET /
// Signed-in users get the dashboard, everyone else the landing page.
func (h *DashboardHandler) Home(c *gin.Context) {
	ws, ok := middleware.CurrentWorkspace(c)
	if !ok {
		utils.SuccessResponse(c, page(c, landing))
		return
	}

	view, err := h.dashboardService.Dashboard(c.Request.Context(), ws, utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page(c, view))
}
