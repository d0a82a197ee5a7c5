// internal/services/license_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
)

// OwnedLicenseView is a purchased license as rendered. Optional parts are
// empty when the terms do not carry them.
type OwnedLicenseView struct {
	ID            int64  `json:"id"`
	IPID          string `json:"ipId"`
	Title         string `json:"title"`
	Image         string `json:"image,omitempty"`
	CommercialUse string `json:"commercialUse"`
	Derivatives   string `json:"derivatives"`
	AITraining    string `json:"aiTraining"`
	RevShare      string `json:"revShare,omitempty"`
	Expiration    string `json:"expiration"`
	PurchasedOn   string `json:"purchasedOn"`
	Explorer      string `json:"explorer"`
	MediaURL      string `json:"mediaUrl,omitempty"`
	HasMedia      bool   `json:"hasMedia"`
}

type LicenseService struct {
	backend Backend
	media   MediaSettings
}

func NewLicenseService(backend Backend, media MediaSettings) *LicenseService {
	return &LicenseService{backend: backend, media: media}
}

// MyLicenses lists the licenses the user bought.
func (s *LicenseService) MyLicenses(ctx context.Context, ws *Workspace, lang string) ([]OwnedLicenseView, error) {
	licenses, err := s.backend.MyLicenses(ctx, ws.Token())
	if err != nil {
		logrus.WithError(err).Warn("Failed loading my licenses")
		return nil, backendError(i18n.M(i18n.KeyLoadFailed), err)
	}

	labels := labelsFor(lang)
	views := make([]OwnedLicenseView, 0, len(licenses))
	for _, l := range licenses {
		views = append(views, s.view(l, labels))
	}
	return views, nil
}

func (s *LicenseService) view(l models.OwnedLicense, labels models.Labels) OwnedLicenseView {
	t := l.Terms
	return OwnedLicenseView{
		ID:            l.ID,
		IPID:          l.IPID,
		Title:         l.DisplayTitle(labels),
		Image:         s.media.image(t.ImageSource()),
		CommercialUse: labels.Allow(t.CommercialUse, labels.No),
		Derivatives:   labels.Allow(t.DerivativesAllowed, labels.No),
		AITraining:    labels.Allow(t.AITraining, labels.No),
		RevShare:      t.RevShareLabel(),
		Expiration:    t.ExpirationLabel(labels),
		PurchasedOn:   l.PurchaseDate(),
		Explorer:      s.media.explorerLink(l.IPID),
		MediaURL:      s.media.image(t.MediaSource()),
		HasMedia:      t.MediaURL != "",
	}
}
