// internal/services/asset_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
)

type AssetService struct {
	backend   Backend
	templates *TemplateService
	media     MediaSettings
}

func NewAssetService(backend Backend, templates *TemplateService, media MediaSettings) *AssetService {
	return &AssetService{
		backend:   backend,
		templates: templates,
		media:     media,
	}
}

// Assets returns the signed-in user's asset tiles.
func (s *AssetService) Assets(ctx context.Context, ws *Workspace, lang string) ([]models.AssetCard, error) {
	assets, err := s.backend.Assets(ctx, ws.Token())
	if err != nil {
		return nil, backendError(i18n.M(i18n.KeyLoadFailed), err)
	}

	labels := labelsFor(lang)
	cards := make([]models.AssetCard, 0, len(assets))
	for _, asset := range assets {
		card := asset.Card(labels)
		card.ImageURL = s.media.image(card.ImageURL)
		if card.Explorer == "" {
			card.Explorer = s.media.explorerLink(asset.IPID)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// RegistrationView renders the register page with the template gallery.
func (s *AssetService) RegistrationView(ws *Workspace) RegistrationView {
	view := ws.Registration.View()
	if view.UseTemplate {
		view.Templates = s.templates.Templates()
	}
	return view
}

// SelectTemplate applies the preset with the given id to the form.
func (s *AssetService) SelectTemplate(ws *Workspace, id string) error {
	t, ok := s.templates.Template(id)
	if !ok {
		return &UserError{Kind: KindNotFound, Msg: i18n.M(i18n.KeyRegisterUnknownTemplate)}
	}
	return ws.Registration.SelectTemplate(t)
}

// RegisterOutcome is a successful registration.
type RegisterOutcome struct {
	Result  models.RegisterResult `json:"result"`
	Message i18n.Message          `json:"-"`
}

// Register validates the form locally and, only if it passes, posts it
// once as multipart form data.
func (s *AssetService) Register(ctx context.Context, ws *Workspace, lang string) (*RegisterOutcome, error) {
	reg := ws.Registration
	sub, err := reg.begin(lang)
	if err != nil {
		return nil, err
	}

	succeeded := false
	defer func() { reg.finish(sub, succeeded) }()

	payload := api.RegisterPayload{
		Fields: sub.form.Fields(),
		Image:  sub.image,
		Media:  sub.media,
	}
	if sub.useTemplate {
		image, err := s.templates.Image(ctx, *sub.template)
		if err != nil {
			logrus.WithError(err).WithField("template", sub.template.ID).Error("Failed to load template image")
			return nil, upstreamError(i18n.M(i18n.KeyRegisterFailed, err.Error()), err)
		}
		payload.Image = image
	}

	result, err := s.backend.Register(ctx, ws.Token(), payload)
	if err != nil {
		logrus.WithError(err).WithField("title", sub.form.Title).Warn("Asset registration failed")
		return nil, upstreamError(i18n.M(i18n.KeyRegisterFailed, api.MessageOf(err)), err)
	}
	succeeded = true

	logrus.WithFields(logrus.Fields{
		"ip_id":   result.IPID,
		"tx_hash": result.TxHash,
	}).Info("Asset registered")

	result.ImageURL = s.media.image(result.ImageURL)
	if result.Explorer == "" {
		result.Explorer = s.media.explorerLink(result.IPID)
	}
	return &RegisterOutcome{Result: *result, Message: i18n.M(i18n.KeyRegisterSuccess)}, nil
}
