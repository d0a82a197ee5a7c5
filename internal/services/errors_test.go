package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
)

func TestBackendMessagePrefersBackendText(t *testing.T) {
	testWorkspace(t)
	fallback := i18n.M(i18n.KeyLoadFailed)

	withText := &api.Error{Method: "GET", Path: "/assets", Status: 503, Message: "maintenance window"}
	assert.Equal(t, "maintenance window", backendMessage(fallback, withText).Render("en"))
	assert.Equal(t, "maintenance window", backendMessage(fallback, fmt.Errorf("load assets: %w", withText)).Render("en"))

	bare := &api.Error{Method: "GET", Path: "/assets", Status: 503}
	assert.Equal(t, "Failed to load data", backendMessage(fallback, bare).Render("en"))
	assert.Equal(t, "Failed to load data", backendMessage(fallback, errors.New("dial tcp: refused")).Render("en"))
}

func TestPageLoadsShowBackendText(t *testing.T) {
	cases := []struct {
		name     string
		failing  string
		fallback string
		load     func(b *fakeBackend, ws *Workspace) error
	}{
		{
			name:     "dashboard",
			failing:  "me",
			fallback: "Failed to load data",
			load: func(b *fakeBackend, ws *Workspace) error {
				_, err := NewDashboardService(b, testMedia).Dashboard(context.Background(), ws, "en")
				return err
			},
		},
		{
			name:     "owned licenses",
			failing:  "my_licenses",
			fallback: "Failed to load data",
			load: func(b *fakeBackend, ws *Workspace) error {
				_, err := NewLicenseService(b, testMedia).MyLicenses(context.Background(), ws, "en")
				return err
			},
		},
		{
			name:     "revenue board",
			failing:  "ipfi",
			fallback: "Failed to load data",
			load: func(b *fakeBackend, ws *Workspace) error {
				_, err := NewIPFiService(b, testMedia, nil).Load(context.Background(), ws)
				return err
			},
		},
		{
			name:     "marketplace",
			failing:  "listings",
			fallback: "Failed to load data",
			load: func(b *fakeBackend, ws *Workspace) error {
				_, err := NewPurchaseService(b, newFakeWallet(), sepolia, testMedia, nil).Load(context.Background(), ws)
				return err
			},
		},
		{
			name:     "listing board",
			failing:  "assets",
			fallback: "Failed to load assets",
			load: func(b *fakeBackend, ws *Workspace) error {
				_, err := NewListingService(b, testMedia).Load(context.Background(), ws)
				return err
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.errs[tc.failing] = &api.Error{Method: "GET", Status: 500, Message: "database unavailable"}
			err := tc.load(backend, testWorkspace(t))
			assert.Equal(t, "database unavailable", userMessage(t, err))

			backend.errs[tc.failing] = errors.New("connection reset")
			err = tc.load(backend, testWorkspace(t))
			assert.Equal(t, tc.fallback, userMessage(t, err))
		})
	}
}
