// internal/services/purchase_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/wallet"
)

var (
	ErrUnknownListing          = errors.New("listing not found")
	ErrSettlementWalletMissing = errors.New("settlement wallet not loaded")
	ErrInvalidPrice            = errors.New("listing price must be greater than zero")
	ErrPurchaseInProgress      = errors.New("purchase already in progress")
	ErrWrongNetwork            = errors.New("wallet is on the wrong network")
)

// Purchase stages, in the order they run.
const (
	StageLookup           = "lookup"
	StageSettlementWallet = "settlement_wallet"
	StagePrice            = "price"
	StageAccounts         = "accounts"
	StageNetwork          = "network"
	StageAmount           = "amount"
	StageLock             = "lock"
	StageTransaction      = "transaction"
	StageSettlement       = "settlement"
	StageSettled          = "settled"
)

// PurchaseError is a purchase aborted at Stage.
type PurchaseError struct {
	Stage     string
	Err       error
	chainName string
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase %s: %v", e.Stage, e.Err)
}

func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// UserMessage picks the message for the abort. Wallet refusals and a
// missing settlement wallet get their own text; other failures show the
// backend's message when it sent one and a generic payment failure
// otherwise.
func (e *PurchaseError) UserMessage() i18n.Message {
	switch {
	case errors.Is(e.Err, ErrSettlementWalletMissing):
		return i18n.M(i18n.KeyPurchaseNoServerWallet)
	case errors.Is(e.Err, ErrWrongNetwork):
		return i18n.M(i18n.KeyPurchaseSwitchNetwork, e.chainName)
	case errors.Is(e.Err, ErrPurchaseInProgress):
		return i18n.M(i18n.KeyPurchaseInProgress)
	case errors.Is(e.Err, ErrInvalidPrice):
		return i18n.M(i18n.KeyPurchaseInvalidPrice)
	case errors.Is(e.Err, ErrUnknownListing):
		return i18n.M(i18n.KeyPurchaseUnknownListing)
	case errors.Is(e.Err, wallet.ErrUserRejected):
		return i18n.M(i18n.KeyPurchaseRejected)
	default:
		return backendMessage(i18n.M(i18n.KeyPurchaseFailed), e.Err)
	}
}

func (e *PurchaseError) ErrorKind() ErrorKind {
	switch {
	case errors.Is(e.Err, ErrUnknownListing):
		return KindNotFound
	case errors.Is(e.Err, ErrPurchaseInProgress), errors.Is(e.Err, ErrSettlementWalletMissing):
		return KindConflict
	case errors.Is(e.Err, ErrInvalidPrice):
		return KindValidation
	case errors.Is(e.Err, ErrWrongNetwork), errors.Is(e.Err, wallet.ErrUserRejected):
		return KindWallet
	default:
		return KindUpstream
	}
}

// NetworkSettings names the chain purchases are paid on.
type NetworkSettings struct {
	ChainID    string
	ChainName  string
	PaymentTag models.PaymentTag
}

// Recorder receives purchase and claim outcomes.
type Recorder interface {
	PurchaseEnded(stage string)
	ClaimEnded(outcome string)
	LockHeld(kind string) func()
}

type nopRecorder struct{}

func (nopRecorder) PurchaseEnded(string)   {}
func (nopRecorder) ClaimEnded(string)      {}
func (nopRecorder) LockHeld(string) func() { return func() {} }

type PurchaseService struct {
	backend  Backend
	provider wallet.Provider
	network  NetworkSettings
	media    MediaSettings
	recorder Recorder
}

func NewPurchaseService(backend Backend, provider wallet.Provider, network NetworkSettings, media MediaSettings, recorder Recorder) *PurchaseService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &PurchaseService{
		backend:  backend,
		provider: provider,
		network:  network,
		media:    media,
		recorder: recorder,
	}
}

// Load mounts the marketplace: listings are fetched, and the settlement
// wallet too while the session does not know it yet. A settlement wallet
// failure is not fatal to the page; purchases report it instead.
func (s *PurchaseService) Load(ctx context.Context, ws *Workspace) ([]models.Listing, error) {
	market := ws.Market
	gen := market.mount()

	var listings []models.Listing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listings, err = s.backend.Listings(gctx)
		return err
	})
	if market.SettlementWallet() == "" {
		g.Go(func() error {
			w, err := s.backend.ServerWallet(gctx, ws.Token())
			if err != nil {
				logrus.WithError(err).Warn("Failed to load settlement wallet")
				return nil
			}
			market.setSettlementWallet(w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Warn("Failed loading listings")
		return nil, backendError(i18n.M(i18n.KeyLoadFailed), err)
	}

	market.commit(gen, func() { market.listings = listings })
	return listings, nil
}

// MarketListingView is a listing as rendered.
type MarketListingView struct {
	ID            int64   `json:"id"`
	IPID          string  `json:"ipId"`
	CreatorWallet string  `json:"creatorWallet"`
	Price         float64 `json:"price"`
	PriceLabel    string  `json:"priceLabel"`
	Image         string  `json:"image,omitempty"`
	Explorer      string  `json:"explorer,omitempty"`
	Processing    bool    `json:"processing"`
}

// MarketView is the marketplace page.
type MarketView struct {
	Listings               []MarketListingView `json:"listings"`
	SettlementWalletLoaded bool                `json:"settlementWalletLoaded"`
}

func (s *PurchaseService) View(ws *Workspace, listings []models.Listing) MarketView {
	view := MarketView{
		Listings:               make([]MarketListingView, 0, len(listings)),
		SettlementWalletLoaded: ws.Market.SettlementWallet() != "",
	}
	for _, l := range listings {
		view.Listings = append(view.Listings, MarketListingView{
			ID:            l.ID,
			IPID:          l.IPID,
			CreatorWallet: l.CreatorWallet,
			Price:         l.Price,
			PriceLabel:    models.FormatNumber(l.Price) + " SepETH",
			Image:         s.media.image(l.DisplayImage()),
			Explorer:      s.media.explorerLink(l.IPID),
			Processing:    ws.Market.Processing(l.ID),
		})
	}
	return view
}

// PurchaseReceipt is a settled purchase.
type PurchaseReceipt struct {
	ListingID     int64        `json:"listingId"`
	Buyer         string       `json:"buyer"`
	PaymentTxHash string       `json:"paymentTxHash"`
	SettlementRef string       `json:"settlementTxHash"`
	Message       i18n.Message `json:"-"`
}

// Buy runs the purchase of listing id as a fixed sequence of steps; the
// first failing step aborts the rest. Once started a purchase runs to the
// end even if the caller goes away.
func (s *PurchaseService) Buy(ctx context.Context, ws *Workspace, listingID int64) (receipt *PurchaseReceipt, err error) {
	ctx = context.WithoutCancel(ctx)
	market := ws.Market
	log := logrus.WithField("listing_id", listingID)

	defer func() {
		stage := StageSettled
		var perr *PurchaseError
		if errors.As(err, &perr) {
			stage = perr.Stage
			log.WithError(perr.Err).WithField("stage", stage).Warn("Purchase aborted")
		}
		s.recorder.PurchaseEnded(stage)
	}()

	listing, err := s.lookup(market, listingID)
	if err != nil {
		return nil, err
	}
	defer market.releaseReservation(listingID)
	settlement, err := s.settlementWallet(market)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(listing); err != nil {
		return nil, err
	}
	buyer, err := s.requestAccount(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNetwork(ctx); err != nil {
		return nil, err
	}
	wei, err := toWei(listing)
	if err != nil {
		return nil, err
	}

	release, err := s.lock(market, listingID)
	if err != nil {
		return nil, err
	}
	defer release()

	txHash, err := s.sendPayment(ctx, buyer, settlement, wei)
	if err != nil {
		return nil, err
	}
	log = log.WithField("payment_tx", txHash)

	ref, err := s.settle(ctx, ws.Token(), listingID, txHash)
	if err != nil {
		return nil, err
	}

	log.WithField("settlement_tx", ref).Info("License purchased")
	s.refresh(ctx, market)

	return &PurchaseReceipt{
		ListingID:     listingID,
		Buyer:         buyer,
		PaymentTxHash: txHash,
		SettlementRef: ref,
		Message:       i18n.M(i18n.KeyPurchaseSuccess, ref),
	}, nil
}

func (s *PurchaseService) lookup(market *Market, listingID int64) (models.Listing, error) {
	if market.isClosed() {
		return models.Listing{}, &PurchaseError{Stage: StageLookup, Err: ErrWorkspaceClosed}
	}
	listing, ok := market.Listing(listingID)
	if !ok {
		return models.Listing{}, &PurchaseError{Stage: StageLookup, Err: ErrUnknownListing}
	}
	if !market.reserve(listingID) {
		return models.Listing{}, &PurchaseError{Stage: StageLookup, Err: ErrPurchaseInProgress}
	}
	return listing, nil
}

func (s *PurchaseService) settlementWallet(market *Market) (string, error) {
	w := market.SettlementWallet()
	if w == "" {
		return "", &PurchaseError{Stage: StageSettlementWallet, Err: ErrSettlementWalletMissing}
	}
	return w, nil
}

func checkPrice(listing models.Listing) error {
	if !(listing.Price > 0) {
		return &PurchaseError{Stage: StagePrice, Err: ErrInvalidPrice}
	}
	return nil
}

func (s *PurchaseService) requestAccount(ctx context.Context) (string, error) {
	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return "", &PurchaseError{Stage: StageAccounts, Err: err}
	}
	if len(accounts) == 0 {
		return "", &PurchaseError{Stage: StageAccounts, Err: wallet.ErrNoAccounts}
	}
	return accounts[0], nil
}

// ensureNetwork switches the wallet to the payment chain when needed. A
// refused switch aborts before any transaction is requested.
func (s *PurchaseService) ensureNetwork(ctx context.Context) error {
	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		return &PurchaseError{Stage: StageNetwork, Err: err}
	}
	if wallet.SameChain(chainID, s.network.ChainID) {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"current":  chainID,
		"required": s.network.ChainID,
	}).Info("Requesting wallet network switch")

	if err := s.provider.SwitchChain(ctx, s.network.ChainID); err != nil {
		return &PurchaseError{
			Stage:     StageNetwork,
			Err:       fmt.Errorf("%w: %w", ErrWrongNetwork, err),
			chainName: s.network.ChainName,
		}
	}
	return nil
}

func toWei(listing models.Listing) (*big.Int, error) {
	wei, err := wallet.EtherToWei(listing.Price)
	if err != nil {
		return nil, &PurchaseError{Stage: StageAmount, Err: err}
	}
	return wei, nil
}

// lock takes the listing's processing lock and returns its release.
func (s *PurchaseService) lock(market *Market, listingID int64) (func(), error) {
	if !market.tryLock(listingID) {
		return nil, &PurchaseError{Stage: StageLock, Err: ErrPurchaseInProgress}
	}
	done := s.recorder.LockHeld("purchase")
	return func() {
		market.unlock(listingID)
		done()
	}, nil
}

func (s *PurchaseService) sendPayment(ctx context.Context, buyer, settlement string, wei *big.Int) (string, error) {
	txHash, err := s.provider.SendTransaction(ctx, wallet.TxRequest{
		From:  buyer,
		To:    settlement,
		Value: wei,
	})
	if err != nil {
		return "", &PurchaseError{Stage: StageTransaction, Err: err}
	}
	return txHash, nil
}

// settle hands the broadcast payment to the backend, which verifies it on
// chain. The console does not re-verify.
func (s *PurchaseService) settle(ctx context.Context, token string, listingID int64, txHash string) (string, error) {
	res, err := s.backend.BuyLicense(ctx, token, models.BuyLicenseRequest{
		ListingID:     listingID,
		PaymentTxHash: txHash,
		Token:         s.network.PaymentTag,
	})
	if err != nil {
		return "", &PurchaseError{Stage: StageSettlement, Err: err}
	}
	return res.TxHash, nil
}

// refresh re-fetches every listing after a purchase; availability may have
// changed in ways the console cannot infer.
func (s *PurchaseService) refresh(ctx context.Context, market *Market) {
	gen := market.generation()
	listings, err := s.backend.Listings(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Failed to refresh listings after purchase")
		return
	}
	market.commit(gen, func() { market.listings = listings })
}
