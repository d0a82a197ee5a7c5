// internal/services/dashboard_service.go
package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
)

const noFeaturedTitle = "—"

// DashboardView is the signed-in home page.
type DashboardView struct {
	User             models.User        `json:"user"`
	ProfileImage     string             `json:"profileImage"`
	FeaturedTitle    string             `json:"featuredTitle"`
	FeaturedExplorer string             `json:"featuredExplorer,omitempty"`
	AssetCount       int                `json:"assetCount"`
	Assets           []models.AssetCard `json:"assets"`
}

type DashboardService struct {
	backend Backend
	media   MediaSettings
}

func NewDashboardService(backend Backend, media MediaSettings) *DashboardService {
	return &DashboardService{backend: backend, media: media}
}

// Dashboard fetches the profile and the assets concurrently. The first
// asset feeds the profile picture and the featured entry.
func (s *DashboardService) Dashboard(ctx context.Context, ws *Workspace, lang string) (*DashboardView, error) {
	var (
		user   *models.User
		assets []models.Asset
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.backend.Me(gctx, ws.Token())
		return err
	})
	g.Go(func() error {
		var err error
		assets, err = s.backend.Assets(gctx, ws.Token())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, backendError(i18n.M(i18n.KeyLoadFailed), err)
	}

	view := &DashboardView{
		User:          *user,
		ProfileImage:  s.media.PlaceholderImage,
		FeaturedTitle: noFeaturedTitle,
		AssetCount:    len(assets),
		Assets:        make([]models.AssetCard, 0, len(assets)),
	}
	if len(assets) > 0 {
		first := assets[0]
		if first.ImageURL != "" {
			view.ProfileImage = s.media.image(first.ImageURL)
		}
		if first.Metadata.Title != "" {
			view.FeaturedTitle = first.Metadata.Title
		}
		view.FeaturedExplorer = s.media.explorerLink(first.IPID)
	}

	labels := labelsFor(lang)
	for _, a := range assets {
		card := a.Card(labels)
		card.ImageURL = s.media.image(card.ImageURL)
		view.Assets = append(view.Assets, card)
	}
	return view, nil
}
