// internal/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/middleware"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type formPage struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
	Submit string   `json:"submit"`
}

// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentWorkspace(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	utils.SuccessResponse(c, page(c, formPage{
		Title:  "Login",
		Fields: []string{"walletAddress", "password"},
		Submit: "/login",
	}))
}

// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if _, err := h.authService.Login(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, gin.H{"redirect": "/"}, i18n.M(i18n.KeyAuthLoginSuccess))
}

// GET /signup
func (h *AuthHandler) SignupPage(c *gin.Context) {
	if _, ok := middleware.CurrentWorkspace(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	utils.SuccessResponse(c, page(c, formPage{
		Title:  "Signup",
		Fields: []string{"name", "email", "walletAddress", "password"},
		Submit: "/signup",
	}))
}

// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.Signup
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if _, err := h.authService.Signup(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"redirect": "/"}, i18n.M(i18n.KeyAuthSignupSuccess))
}

// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.MessageResponse(c, gin.H{"redirect": middleware.LoginPath}, i18n.M(i18n.KeyAuthLogoutSuccess))
}
