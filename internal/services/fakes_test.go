package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/models"
	"github.com/dravik/licensing-console/internal/session"
	"github.com/dravik/licensing-console/internal/wallet"
)

// fakeBackend records calls and answers from its fields. Hooks run before
// the canned answer and may block to simulate slow responses.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	token        string
	user         models.User
	assets       []models.Asset
	listings     []models.Listing
	serverWallet string
	ipfi         []models.IPFiAsset
	licenses     []models.OwnedLicense
	claim        *models.ClaimResult
	settlement   string

	errs map[string]error

	registered []api.RegisterPayload
	listed     []models.ListLicenseRequest
	bought     []models.BuyLicenseRequest

	hooks map[string]func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:      make(map[string]int),
		errs:       make(map[string]error),
		hooks:      make(map[string]func()),
		token:      "tok",
		settlement: "0xsettled",
	}
}

func (f *fakeBackend) enter(name string) error {
	f.mu.Lock()
	f.calls[name]++
	hook := f.hooks[name]
	err := f.errs[name]
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	if err := f.enter("login"); err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: f.token}, nil
}

func (f *fakeBackend) Signup(ctx context.Context, req models.Signup) (*models.AuthResult, error) {
	if err := f.enter("signup"); err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: f.token}, nil
}

func (f *fakeBackend) Me(ctx context.Context, token string) (*models.User, error) {
	if err := f.enter("me"); err != nil {
		return nil, err
	}
	u := f.user
	return &u, nil
}

func (f *fakeBackend) Assets(ctx context.Context, token string) ([]models.Asset, error) {
	if err := f.enter("assets"); err != nil {
		return nil, err
	}
	return f.assets, nil
}

func (f *fakeBackend) Register(ctx context.Context, token string, payload api.RegisterPayload) (*models.RegisterResult, error) {
	if err := f.enter("register"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.registered = append(f.registered, payload)
	f.mu.Unlock()
	return &models.RegisterResult{IPID: "0xnew", TxHash: "0xtx", ImageURL: "ipfs://cid"}, nil
}

func (f *fakeBackend) Listings(ctx context.Context) ([]models.Listing, error) {
	if err := f.enter("listings"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listings, nil
}

func (f *fakeBackend) ListLicense(ctx context.Context, token string, req models.ListLicenseRequest) error {
	if err := f.enter("list"); err != nil {
		return err
	}
	f.mu.Lock()
	f.listed = append(f.listed, req)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) BuyLicense(ctx context.Context, token string, req models.BuyLicenseRequest) (*models.Settlement, error) {
	if err := f.enter("buy"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.bought = append(f.bought, req)
	f.mu.Unlock()
	return &models.Settlement{TxHash: f.settlement}, nil
}

func (f *fakeBackend) ServerWallet(ctx context.Context, token string) (string, error) {
	if err := f.enter("server_wallet"); err != nil {
		return "", err
	}
	return f.serverWallet, nil
}

func (f *fakeBackend) IPFiAssets(ctx context.Context, token string) ([]models.IPFiAsset, error) {
	if err := f.enter("ipfi"); err != nil {
		return nil, err
	}
	return f.ipfi, nil
}

func (f *fakeBackend) Claim(ctx context.Context, token, ipID string) (*models.ClaimResult, error) {
	if err := f.enter("claim"); err != nil {
		return nil, err
	}
	return f.claim, nil
}

func (f *fakeBackend) MyLicenses(ctx context.Context, token string) ([]models.OwnedLicense, error) {
	if err := f.enter("my_licenses"); err != nil {
		return nil, err
	}
	return f.licenses, nil
}

// fakeWallet is a scripted wallet provider.
type fakeWallet struct {
	mu sync.Mutex

	accounts  []string
	chainID   string
	switchErr error
	accErr    error
	sendErr   error
	txHash    string

	calls    []string
	switched []string
	sent     []wallet.TxRequest

	onSend     func(wallet.TxRequest)
	onAccounts func()
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		accounts: []string{"0xbuyer"},
		chainID:  "0xaa36a7",
		txHash:   "0xpayment",
	}
}

func (w *fakeWallet) record(call string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, call)
}

func (w *fakeWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	w.record("eth_requestAccounts")
	if w.onAccounts != nil {
		w.onAccounts()
	}
	if w.accErr != nil {
		return nil, w.accErr
	}
	return w.accounts, nil
}

func (w *fakeWallet) ChainID(ctx context.Context) (string, error) {
	w.record("eth_chainId")
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID, nil
}

func (w *fakeWallet) SwitchChain(ctx context.Context, chainID string) error {
	w.record("wallet_switchEthereumChain")
	w.mu.Lock()
	defer w.mu.Unlock()
	w.switched = append(w.switched, chainID)
	if w.switchErr != nil {
		return w.switchErr
	}
	w.chainID = chainID
	return nil
}

func (w *fakeWallet) SendTransaction(ctx context.Context, tx wallet.TxRequest) (string, error) {
	w.record("eth_sendTransaction")
	if w.onSend != nil {
		w.onSend(tx)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent = append(w.sent, tx)
	if w.sendErr != nil {
		return "", w.sendErr
	}
	return w.txHash, nil
}

func (w *fakeWallet) sentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sent)
}

type countingRecorder struct {
	mu        sync.Mutex
	purchases map[string]int
	claims    map[string]int
	held      int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{purchases: make(map[string]int), claims: make(map[string]int)}
}

func (r *countingRecorder) PurchaseEnded(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[stage]++
}

func (r *countingRecorder) ClaimEnded(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claims[outcome]++
}

func (r *countingRecorder) LockHeld(string) func() {
	r.mu.Lock()
	r.held++
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.held--
		r.mu.Unlock()
	}
}

var testMedia = MediaSettings{
	IPFSGateway:      "https://gateway.test/ipfs/",
	ExplorerURL:      "https://explorer.test/ipa/",
	PlaceholderImage: "https://via.placeholder.com/120",
}

func testWorkspace(t *testing.T) *Workspace {
	t.Helper()
	require.NoError(t, i18n.Initialize())
	m := session.NewManager(session.NewMemoryStore(), nil)
	sess, err := m.Begin("tok")
	require.NoError(t, err)
	return NewWorkspace(sess)
}
