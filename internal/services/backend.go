// internal/services/backend.go
package services

import (
	"context"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
)

// Backend is the licensing backend as the services use it. *api.Client
// implements it.
type Backend interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Signup(ctx context.Context, req models.Signup) (*models.AuthResult, error)
	Me(ctx context.Context, token string) (*models.User, error)
	Assets(ctx context.Context, token string) ([]models.Asset, error)
	Register(ctx context.Context, token string, payload api.RegisterPayload) (*models.RegisterResult, error)
	Listings(ctx context.Context) ([]models.Listing, error)
	ListLicense(ctx context.Context, token string, req models.ListLicenseRequest) error
	BuyLicense(ctx context.Context, token string, req models.BuyLicenseRequest) (*models.Settlement, error)
	ServerWallet(ctx context.Context, token string) (string, error)
	IPFiAssets(ctx context.Context, token string) ([]models.IPFiAsset, error)
	Claim(ctx context.Context, token, ipID string) (*models.ClaimResult, error)
	MyLicenses(ctx context.Context, token string) ([]models.OwnedLicense, error)
}

var _ Backend = (*api.Client)(nil)

// MediaSettings controls how media references and explorer links render.
type MediaSettings struct {
	IPFSGateway      string
	ExplorerURL      string
	PlaceholderImage string
}

func (m MediaSettings) image(ref string) string {
	return models.GatewayURL(ref, m.IPFSGateway)
}

// explorerLink returns the explorer page for an IP id.
func (m MediaSettings) explorerLink(ipID string) string {
	if ipID == "" || m.ExplorerURL == "" {
		return ""
	}
	return m.ExplorerURL + ipID
}

// labelsFor returns the license display words in lang.
func labelsFor(lang string) models.Labels {
	return models.Labels{
		Allowed:       i18n.T(lang, i18n.KeyAllowed),
		NotAllowed:    i18n.T(lang, i18n.KeyNotAllowed),
		No:            i18n.T(lang, i18n.KeyNo),
		Yes:           i18n.T(lang, i18n.KeyYes),
		Lifetime:      i18n.T(lang, i18n.KeyLifetime),
		LicensedAsset: i18n.T(lang, i18n.KeyLicensedAsset),
	}
}
