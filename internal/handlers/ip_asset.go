// internal/handlers/ip_asset.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/utils"
)

// maxUploadMemory bounds the part of a multipart draft held in memory.
const maxUploadMemory = 32 << 20

type IPAssetHandler struct {
	assetService *services.AssetService
}

func NewIPAssetHandler(assetService *services.AssetService) *IPAssetHandler {
	return &IPAssetHandler{
		assetService: assetService,
	}
}

// GET /assets
func (h *IPAssetHandler) GetAssets(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	cards, err := h.assetService.Assets(c.Request.Context(), ws, utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, page(c, gin.H{"assets": cards}))
}

// GET /register
func (h *IPAssetHandler) RegisterPage(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, page(c, h.assetService.RegistrationView(ws)))
}

// PUT /register/draft
// Accepts JSON, or multipart form data when files are attached.
func (h *IPAssetHandler) UpdateDraft(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	var (
		draft services.RegistrationDraft
		err   error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		draft, err = multipartDraft(c)
	} else {
		err = c.ShouldBindJSON(&draft)
	}
	if err != nil {
		utils.MessageErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", i18n.M(i18n.KeyRegisterInvalidFile, err.Error()), nil)
		return
	}

	if err := ws.Registration.Edit(draft); err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, h.assetService.RegistrationView(ws))
}

func multipartDraft(c *gin.Context) (services.RegistrationDraft, error) {
	var d services.RegistrationDraft
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		return d, err
	}
	form := c.Request.MultipartForm

	value := func(name string) (string, bool) {
		v, ok := form.Value[name]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}
	text := func(name string) *string {
		if v, ok := value(name); ok {
			return &v
		}
		return nil
	}
	flag := func(name string) *bool {
		if v, ok := value(name); ok {
			b, _ := strconv.ParseBool(v)
			return &b
		}
		return nil
	}
	amount := func(name string) *models.Amount {
		if v, ok := value(name); ok {
			a := models.ParseAmount(v)
			return &a
		}
		return nil
	}

	d.Title = text("title")
	d.Description = text("description")
	d.CreatorName = text("creatorName")
	d.CreatorWallet = text("creatorWallet")
	d.CommercialAllowed = flag("commercialAllowed")
	d.RemixAllowed = flag("remixAllowed")
	d.AITrainingAllowed = flag("aiTrainingAllowed")
	d.RevShare = amount("revShare")
	d.MaxLicenses = amount("maxLicenses")
	if clear := flag("clearImage"); clear != nil {
		d.ClearImage = *clear
	}
	if clear := flag("clearMedia"); clear != nil {
		d.ClearMedia = *clear
	}

	var err error
	if files := form.File["image"]; len(files) > 0 {
		if d.Image, err = services.ReadUpload(files[0], services.GetDefaultUploadOptions("image")); err != nil {
			return d, err
		}
	}
	if files := form.File["media"]; len(files) > 0 {
		if d.Media, err = services.ReadUpload(files[0], services.GetDefaultUploadOptions("media")); err != nil {
			return d, err
		}
	}
	return d, nil
}

type templateRequest struct {
	UseTemplate bool   `json:"useTemplate"`
	TemplateID  string `json:"templateId"`
}

// POST /register/template
// A template id selects that preset; otherwise template mode is switched
// on or off.
func (h *IPAssetHandler) SelectTemplate(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	var err error
	if req.TemplateID != "" {
		err = h.assetService.SelectTemplate(ws, req.TemplateID)
	} else {
		err = ws.Registration.SetTemplateMode(req.UseTemplate)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, h.assetService.RegistrationView(ws))
}

// POST /register
func (h *IPAssetHandler) Register(c *gin.Context) {
	ws, ok := sessionWorkspace(c)
	if !ok {
		return
	}

	outcome, err := h.assetService.Register(c.Request.Context(), ws, utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"result":       outcome.Result,
		"registration": h.assetService.RegistrationView(ws),
	}, outcome.Message)
}
