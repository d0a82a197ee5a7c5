// internal/services/ipfi_service.go
package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
)

// Claim outcomes as recorded in metrics.
const (
	ClaimClaimed = "claimed"
	ClaimNothing = "nothing"
	ClaimRefused = "refused"
	ClaimError   = "error"
	ClaimBusy    = "busy"
)

var chartColors = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#AA00FF"}

// RevenueBoard is the state of the IPFi dashboard. claiming holds the
// per-asset claim locks.
type RevenueBoard struct {
	page

	assets   []models.IPFiAsset
	claiming map[string]struct{}
}

func newRevenueBoard() *RevenueBoard {
	return &RevenueBoard{claiming: make(map[string]struct{})}
}

// Assets returns a copy of the loaded assets.
func (b *RevenueBoard) Assets() []models.IPFiAsset {
	var out []models.IPFiAsset
	b.read(func() {
		out = make([]models.IPFiAsset, len(b.assets))
		copy(out, b.assets)
	})
	return out
}

func (b *RevenueBoard) asset(ipID string) (models.IPFiAsset, bool) {
	var (
		asset models.IPFiAsset
		found bool
	)
	b.read(func() {
		for _, a := range b.assets {
			if a.IPID == ipID {
				asset, found = a, true
				return
			}
		}
	})
	return asset, found
}

// Claiming reports whether a claim for ipID is in flight.
func (b *RevenueBoard) Claiming(ipID string) bool {
	var busy bool
	b.read(func() { _, busy = b.claiming[ipID] })
	return busy
}

func (b *RevenueBoard) tryLock(ipID string) bool {
	acquired := false
	b.read(func() {
		if _, busy := b.claiming[ipID]; busy {
			return
		}
		b.claiming[ipID] = struct{}{}
		acquired = true
	})
	return acquired
}

func (b *RevenueBoard) unlock(ipID string) {
	b.read(func() { delete(b.claiming, ipID) })
}

// ShareView is one chart segment.
type ShareView struct {
	models.ShareSlice
	Color string `json:"color"`
}

// RevenueAssetView is one asset card of the dashboard.
type RevenueAssetView struct {
	IPID          string            `json:"ipId"`
	Title         string            `json:"title"`
	Explorer      string            `json:"explorer,omitempty"`
	Shares        []ShareView       `json:"shares"`
	Investors     []models.Investor `json:"investors"`
	TotalRevenue  float64           `json:"totalRevenue"`
	RevenueLabel  string            `json:"revenueLabel"`
	Claimable     float64           `json:"claimableRevenue"`
	ClaimDisabled bool              `json:"claimDisabled"`
}

type IPFiService struct {
	backend  Backend
	media    MediaSettings
	recorder Recorder
}

func NewIPFiService(backend Backend, media MediaSettings, recorder Recorder) *IPFiService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &IPFiService{backend: backend, media: media, recorder: recorder}
}

// Load mounts the dashboard.
func (s *IPFiService) Load(ctx context.Context, ws *Workspace) ([]models.IPFiAsset, error) {
	board := ws.Revenue
	gen := board.mount()

	assets, err := s.backend.IPFiAssets(ctx, ws.Token())
	if err != nil {
		logrus.WithError(err).Warn("Failed to load IPFi assets")
		return nil, backendError(i18n.M(i18n.KeyLoadFailed), err)
	}
	board.commit(gen, func() { board.assets = assets })
	return assets, nil
}

// View renders the dashboard. The claimable figure repeats the total: the
// backend exposes no already-claimed amount to subtract.
func (s *IPFiService) View(ws *Workspace, assets []models.IPFiAsset) []RevenueAssetView {
	out := make([]RevenueAssetView, 0, len(assets))
	for _, a := range assets {
		total := a.TotalRevenue()
		slices := a.Shares()
		shares := make([]ShareView, 0, len(slices))
		for i, slice := range slices {
			shares = append(shares, ShareView{ShareSlice: slice, Color: chartColors[i%len(chartColors)]})
		}
		investors := a.Investors
		if investors == nil {
			investors = []models.Investor{}
		}
		out = append(out, RevenueAssetView{
			IPID:          a.IPID,
			Title:         a.Metadata.Title,
			Explorer:      s.media.explorerLink(a.IPID),
			Shares:        shares,
			Investors:     investors,
			TotalRevenue:  total,
			RevenueLabel:  models.FormatNumber(total) + " WIP",
			Claimable:     total,
			ClaimDisabled: ws.Revenue.Claiming(a.IPID),
		})
	}
	return out
}

// ClaimOutcome is a successful claim.
type ClaimOutcome struct {
	IPID    string       `json:"ipId"`
	Amount  float64      `json:"amount"`
	Message i18n.Message `json:"-"`
}

// Claim pays out the accrued revenue of an asset on the board. Nothing is
// sent when the total is zero. Only an accepted claim refreshes the board;
// a refusal leaves it as it is and reports the backend's own words.
func (s *IPFiService) Claim(ctx context.Context, ws *Workspace, ipID string) (outcome *ClaimOutcome, err error) {
	board := ws.Revenue
	result := ClaimError
	defer func() { s.recorder.ClaimEnded(result) }()

	if board.isClosed() {
		return nil, ErrWorkspaceClosed
	}
	asset, ok := board.asset(ipID)
	if !ok {
		return nil, &UserError{Kind: KindNotFound, Msg: i18n.M(i18n.KeyClaimUnknown)}
	}
	total := asset.TotalRevenue()
	if total == 0 {
		result = ClaimNothing
		return nil, validationError(i18n.M(i18n.KeyClaimNothing), nil)
	}

	if !board.tryLock(ipID) {
		result = ClaimBusy
		return nil, &UserError{Kind: KindConflict, Msg: i18n.M(i18n.KeyClaimBusy)}
	}
	done := s.recorder.LockHeld("claim")
	defer func() {
		board.unlock(ipID)
		done()
	}()

	log := logrus.WithField("ip_id", ipID)
	res, err := s.backend.Claim(context.WithoutCancel(ctx), ws.Token(), ipID)
	if err != nil {
		log.WithError(err).Warn("Claim request failed")
		return nil, upstreamError(i18n.M(i18n.KeyClaimError, api.MessageOf(err)), err)
	}
	if !res.Success {
		result = ClaimRefused
		msg := i18n.M(i18n.KeyClaimFailed)
		if res.Message != "" {
			msg = i18n.Text(res.Message)
		}
		log.WithField("message", res.Message).Info("Claim refused")
		return nil, &UserError{Kind: KindConflict, Msg: msg}
	}

	result = ClaimClaimed
	log.WithField("amount", total).Info("Revenue claimed")
	s.refresh(ctx, board, ws.Token())

	return &ClaimOutcome{
		IPID:    ipID,
		Amount:  total,
		Message: i18n.M(i18n.KeyClaimSuccess, models.FormatNumber(total)),
	}, nil
}

func (s *IPFiService) refresh(ctx context.Context, board *RevenueBoard, token string) {
	gen := board.generation()
	assets, err := s.backend.IPFiAssets(context.WithoutCancel(ctx), token)
	if err != nil {
		logrus.WithError(err).Warn("Failed to refresh IPFi assets after claim")
		return
	}
	board.commit(gen, func() { board.assets = assets })
}
