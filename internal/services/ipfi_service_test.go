package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dravik/licensing-console/internal/models"
)

func ipfiAsset(ipID string, revenue map[string]models.Amount) models.IPFiAsset {
	a := models.IPFiAsset{
		IPID:          ipID,
		CreatorShares: 70,
		Investors:     []models.Investor{{Wallet: "0xinv", Shares: 30}},
		RevenueEarned: revenue,
	}
	a.Metadata.Title = "Song " + ipID
	return a
}

type ipfiFixture struct {
	backend  *fakeBackend
	recorder *countingRecorder
	svc      *IPFiService
	ws       *Workspace
}

func newIPFiFixture(t *testing.T, assets ...models.IPFiAsset) *ipfiFixture {
	t.Helper()
	f := &ipfiFixture{
		backend:  newFakeBackend(),
		recorder: newCountingRecorder(),
		ws:       testWorkspace(t),
	}
	f.backend.ipfi = assets
	f.svc = NewIPFiService(f.backend, testMedia, f.recorder)
	_, err := f.svc.Load(context.Background(), f.ws)
	require.NoError(t, err)
	return f
}

func userMessage(t *testing.T, err error) string {
	t.Helper()
	var uerr *UserError
	require.True(t, errors.As(err, &uerr), "want *UserError, got %v", err)
	return uerr.UserMessage().Render("en")
}

func TestClaimRefusalShowsBackendMessage(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 2.5}))
	f.backend.claim = &models.ClaimResult{Success: false, Message: "already claimed"}

	_, err := f.svc.Claim(context.Background(), f.ws, "0xip")
	require.Error(t, err)
	assert.Equal(t, "already claimed", userMessage(t, err))
	// the board is not refreshed after a refusal
	assert.Equal(t, 1, f.backend.count("ipfi"))
	assert.False(t, f.ws.Revenue.Claiming("0xip"))
	assert.Equal(t, 1, f.recorder.claims[ClaimRefused])
}

func TestClaimRefusalWithoutMessage(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 1}))
	f.backend.claim = &models.ClaimResult{Success: false}

	_, err := f.svc.Claim(context.Background(), f.ws, "0xip")
	assert.Equal(t, "Claim failed", userMessage(t, err))
}

func TestClaimNothingSendsNoRequest(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", nil))

	_, err := f.svc.Claim(context.Background(), f.ws, "0xip")
	require.Error(t, err)
	assert.Equal(t, "No revenue to claim", userMessage(t, err))
	assert.Equal(t, 0, f.backend.count("claim"))
	assert.Equal(t, 1, f.recorder.claims[ClaimNothing])
}

func TestClaimSuccessRefreshesBoard(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 1.5, "ETH": 1}))
	f.backend.claim = &models.ClaimResult{Success: true}
	f.backend.ipfi = []models.IPFiAsset{ipfiAsset("0xip", nil)}

	outcome, err := f.svc.Claim(context.Background(), f.ws, "0xip")
	require.NoError(t, err)
	assert.Equal(t, 2.5, outcome.Amount)
	assert.Equal(t, "Revenue claimed: 2.5 WIP", outcome.Message.Render("en"))
	assert.Equal(t, 2, f.backend.count("ipfi"))

	assets := f.ws.Revenue.Assets()
	require.Len(t, assets, 1)
	assert.Zero(t, assets[0].TotalRevenue())
	assert.Equal(t, 1, f.recorder.claims[ClaimClaimed])
}

func TestClaimBackendError(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 1}))
	f.backend.errs["claim"] = errors.New("connection refused")

	_, err := f.svc.Claim(context.Background(), f.ws, "0xip")
	require.Error(t, err)
	assert.Equal(t, "Error claiming revenue: connection refused", userMessage(t, err))
	assert.False(t, f.ws.Revenue.Claiming("0xip"))
	assert.Equal(t, 0, f.recorder.held)
}

func TestClaimUnknownAsset(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 1}))

	_, err := f.svc.Claim(context.Background(), f.ws, "0xother")
	var uerr *UserError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, KindNotFound, uerr.Kind)
	assert.Equal(t, 0, f.backend.count("claim"))
}

func TestClaimLockedWhileInFlight(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 1}))
	f.backend.claim = &models.ClaimResult{Success: true}

	var secondErr error
	var disabled bool
	f.backend.hooks["claim"] = func() {
		disabled = f.svc.View(f.ws, f.ws.Revenue.Assets())[0].ClaimDisabled
		_, secondErr = f.svc.Claim(context.Background(), f.ws, "0xip")
	}

	_, err := f.svc.Claim(context.Background(), f.ws, "0xip")
	require.NoError(t, err)
	assert.True(t, disabled)

	var uerr *UserError
	require.True(t, errors.As(secondErr, &uerr))
	assert.Equal(t, KindConflict, uerr.Kind)
	assert.Equal(t, 1, f.backend.count("claim"))
}

func TestRevenueView(t *testing.T) {
	f := newIPFiFixture(t, ipfiAsset("0xip", map[string]models.Amount{"WIP": 2.5}))

	views := f.svc.View(f.ws, f.ws.Revenue.Assets())
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, "Song 0xip", v.Title)
	assert.Equal(t, "2.5 WIP", v.RevenueLabel)
	assert.Equal(t, v.TotalRevenue, v.Claimable)
	require.Len(t, v.Shares, 2)
	assert.Equal(t, "Creator", v.Shares[0].Name)
	assert.Equal(t, "#0088FE", v.Shares[0].Color)
	assert.Equal(t, "0xinv", v.Shares[1].Name)
	assert.Equal(t, 30.0, v.Shares[1].Value)
	assert.False(t, v.ClaimDisabled)
}

func TestRevenueViewEmptyInvestors(t *testing.T) {
	f := newIPFiFixture(t)
	asset := models.IPFiAsset{IPID: "0xip"}

	views := f.svc.View(f.ws, []models.IPFiAsset{asset})
	require.Len(t, views, 1)
	assert.NotNil(t, views[0].Investors)
	assert.Len(t, views[0].Shares, 1)
}
