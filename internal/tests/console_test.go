// internal/tests/console_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/config"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/metrics"
	"github.com/dravik/licensing-console/internal/router"
	"github.com/dravik/licensing-console/internal/services"
	"github.com/dravik/licensing-console/internal/session"
	"github.com/dravik/licensing-console/internal/wallet"
)

const settlementWallet = "0x1111111111111111111111111111111111111111"

// stubBackend is an in-process stand-in for the licensing backend.
type stubBackend struct {
	mu     sync.Mutex
	hits   map[string]int
	bodies map[string][]byte
	claim  string
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		hits:   make(map[string]int),
		bodies: make(map[string][]byte),
		claim:  `{"success":true}`,
	}
}

func (b *stubBackend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

func (b *stubBackend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.hits {
		n += c
	}
	return n
}

func (b *stubBackend) body(path string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[path]
}

func (b *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.hits[r.URL.Path]++
	b.bodies[r.URL.Path] = body
	claim := b.claim
	b.mu.Unlock()

	if r.URL.Path != "/login" && r.URL.Path != "/market/listings" && r.Header.Get("Authorization") != "Bearer console-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/login":
		if !strings.Contains(string(body), `"password":"secret"`) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"token":"console-token"}`))
	case "/me":
		w.Write([]byte(`{"name":"Ana","email":"ana@example.com","walletAddress":"0xabc"}`))
	case "/assets":
		w.Write([]byte(`{"assets":[{"ipId":"0xa","metadata":{"title":"Alpha","description":"d","creatorWallet":"0xc"},"imageUrl":"ipfs://a"}]}`))
	case "/market/listings":
		w.Write([]byte(`{"listings":[{"id":1,"ip_id":"0xa","creator_wallet":"0xc","price":0.5}]}`))
	case "/wallet/server":
		w.Write([]byte(`{"wallet":"` + settlementWallet + `"}`))
	case "/buy-license":
		w.Write([]byte(`{"txHash":"0xsettled"}`))
	case "/ipfi-assets":
		w.Write([]byte(`{"assets":[{"ipId":"0xa","metadata":{"title":"Alpha"},"creatorShares":"100","investors":[],"revenueEarned":{"WIP":"2.5"}}]}`))
	case "/claim":
		w.Write([]byte(claim))
	case "/my-licenses":
		w.Write([]byte(`{"licenses":[{"id":3,"ipId":"0xa","license_metadata":"{\"title\":\"Alpha\",\"commercialUse\":true,\"expiration\":\"0\"}","purchasedOn":"2025-01-02T03:04:05Z"}]}`))
	case "/list-license":
		w.Write([]byte(`{"success":true}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// stubWallet approves everything and starts on mainnet.
type stubWallet struct {
	mu      sync.Mutex
	chainID string
	sent    []wallet.TxRequest
}

func (w *stubWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	return []string{"0x2222222222222222222222222222222222222222"}, nil
}

func (w *stubWallet) ChainID(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chainID, nil
}

func (w *stubWallet) SwitchChain(ctx context.Context, chainID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chainID = chainID
	return nil
}

func (w *stubWallet) SendTransaction(ctx context.Context, tx wallet.TxRequest) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sent = append(w.sent, tx)
	return "0xpayment", nil
}

type ConsoleTestSuite struct {
	suite.Suite
	backend  *stubBackend
	server   *httptest.Server
	wallet   *stubWallet
	sessions *session.Manager
	console  *router.Console
	metrics  *metrics.Metrics
}

func (suite *ConsoleTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	suite.Require().NoError(i18n.Initialize())
}

func (suite *ConsoleTestSuite) SetupTest() {
	suite.backend = newStubBackend()
	suite.server = httptest.NewServer(suite.backend)
	suite.wallet = &stubWallet{chainID: "0x1"}
	suite.sessions = session.NewManager(session.NewMemoryStore(), nil)
	suite.metrics = metrics.New()

	suite.T().Setenv("BACKEND_URL", suite.server.URL)
	suite.T().Setenv("TEMPLATES_DIR", suite.T().TempDir())
	cfg, err := config.Load()
	suite.Require().NoError(err)

	logger, _ := test.NewNullLogger()
	client := api.New(api.Config{BaseURL: cfg.Backend.URL, Logger: logger, Observe: suite.metrics.ObserveBackend})
	templates, err := services.NewTemplateServiceFromConfig(cfg)
	suite.Require().NoError(err)

	suite.console = router.Initialize(cfg, router.Deps{
		Backend:   client,
		Wallet:    suite.wallet,
		Sessions:  suite.sessions,
		Templates: templates,
		Metrics:   suite.metrics,
	})
}

func (suite *ConsoleTestSuite) TearDownTest() {
	suite.console.Close()
	suite.server.Close()
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (suite *ConsoleTestSuite) do(method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	suite.console.Engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (suite *ConsoleTestSuite) login() {
	w, env := suite.do(http.MethodPost, "/login", map[string]string{
		"walletAddress": "0xabc",
		"password":      "secret",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().True(env.Success)
}

func (suite *ConsoleTestSuite) TestGateRedirectsBeforeAnyFetch() {
	for _, path := range []string{"/assets", "/marketplace", "/ipfi-dashboard", "/my-licenses", "/register", "/marketplace/add"} {
		w, _ := suite.do(http.MethodGet, path, nil)
		suite.Equal(http.StatusFound, w.Code, path)
		suite.Equal("/login", w.Header().Get("Location"), path)
	}
	suite.Zero(suite.backend.total())
}

func (suite *ConsoleTestSuite) TestLandingThenDashboard() {
	w, env := suite.do(http.MethodGet, "/", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"signedIn":false`)
	suite.Contains(string(env.Data), `"headline"`)

	suite.login()

	w, env = suite.do(http.MethodGet, "/", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"featuredTitle":"Alpha"`)
	suite.Contains(string(env.Data), `"signedIn":true`)
}

func (suite *ConsoleTestSuite) TestLoginFailureShowsBackendMessage() {
	w, env := suite.do(http.MethodPost, "/login", map[string]string{
		"walletAddress": "0xabc",
		"password":      "wrong",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Login failed: Invalid credentials", env.Error.Message)
	suite.Nil(suite.sessions.Current())
}

func (suite *ConsoleTestSuite) TestLoginValidation() {
	w, env := suite.do(http.MethodPost, "/login", map[string]string{"walletAddress": "0xabc"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Enter wallet and password", env.Error.Message)
	suite.Zero(suite.backend.count("/login"))
}

func (suite *ConsoleTestSuite) TestPurchaseFlow() {
	suite.login()

	w, env := suite.do(http.MethodGet, "/marketplace", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"priceLabel":"0.5 SepETH"`)
	suite.Contains(string(env.Data), `"settlementWalletLoaded":true`)

	w, env = suite.do(http.MethodPost, "/marketplace/listings/1/buy", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("License purchased! Tx: 0xsettled", env.Message)

	suite.Require().Len(suite.wallet.sent, 1)
	tx := suite.wallet.sent[0]
	suite.Equal(settlementWallet, tx.To)
	suite.Zero(tx.Value.Cmp(big.NewInt(500000000000000000)))
	suite.Equal("0xaa36a7", suite.wallet.chainID)

	suite.JSONEq(`{"listingId":1,"paymentTxHash":"0xpayment","token":"SEPOLIA_ETH"}`, string(suite.backend.body("/buy-license")))
	suite.Equal(2, suite.backend.count("/market/listings"))

	w, _ = suite.do(http.MethodGet, "/metrics", nil)
	suite.Contains(w.Body.String(), `licensing_console_purchases_total{stage="settled"} 1`)
}

func (suite *ConsoleTestSuite) TestBuyUnknownListing() {
	suite.login()
	suite.do(http.MethodGet, "/marketplace", nil)

	w, _ := suite.do(http.MethodPost, "/marketplace/listings/42/buy", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w, env := suite.do(http.MethodPost, "/marketplace/listings/abc/buy", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid listing ID", env.Error.Message)

	w, env = suite.do(http.MethodPost, "/marketplace/listings/abc/buy", nil, "Accept-Language", "zh-TW")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("商品編號無效", env.Error.Message)
	suite.Empty(suite.wallet.sent)
}

func (suite *ConsoleTestSuite) TestClaimRefusal() {
	suite.login()
	suite.backend.mu.Lock()
	suite.backend.claim = `{"success":false,"message":"already claimed"}`
	suite.backend.mu.Unlock()

	w, env := suite.do(http.MethodGet, "/ipfi-dashboard", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"revenueLabel":"2.5 WIP"`)

	w, env = suite.do(http.MethodPost, "/ipfi-dashboard/0xa/claim", nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("already claimed", env.Error.Message)
	suite.Equal(1, suite.backend.count("/ipfi-assets"))
}

func (suite *ConsoleTestSuite) TestClaimSuccessLocalized() {
	suite.login()
	suite.do(http.MethodGet, "/ipfi-dashboard", nil)

	w, env := suite.do(http.MethodPost, "/ipfi-dashboard/0xa/claim", nil, "Accept-Language", "zh-TW,zh;q=0.9")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(env.Message, "2.5 WIP")
	suite.NotEqual("Revenue claimed: 2.5 WIP", env.Message)
	suite.Equal(2, suite.backend.count("/ipfi-assets"))
}

func (suite *ConsoleTestSuite) TestListAsset() {
	suite.login()

	w, env := suite.do(http.MethodGet, "/marketplace/add", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"actionLabel":"Already Listed"`)

	w, env = suite.do(http.MethodPost, "/marketplace/add/0xa", map[string]interface{}{"price": 1})
	suite.Equal(http.StatusConflict, w.Code)

	w, env = suite.do(http.MethodPost, "/marketplace/add/0xa", map[string]interface{}{"price": "abc"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Enter a valid price", env.Error.Message)
	suite.Zero(suite.backend.count("/list-license"))
}

func (suite *ConsoleTestSuite) TestMyLicenses() {
	suite.login()

	w, env := suite.do(http.MethodGet, "/my-licenses", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(env.Data), `"title":"Alpha"`)
	suite.Contains(string(env.Data), `"expiration":"Lifetime"`)
	suite.Contains(string(env.Data), `"commercialUse":"Allowed"`)
	suite.Contains(string(env.Data), `"purchasedOn":"2025-01-02"`)
}

func (suite *ConsoleTestSuite) TestRegisterValidationBlocksSubmit() {
	suite.login()

	w, _ := suite.do(http.MethodPut, "/register/draft", map[string]interface{}{
		"title":         "Song",
		"description":   "Demo",
		"creatorName":   "Ana",
		"creatorWallet": "abc",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, env := suite.do(http.MethodPost, "/register", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", env.Error.Code)
	suite.Contains(w.Body.String(), "Invalid wallet address")
	suite.Zero(suite.backend.count("/register"))
}

func (suite *ConsoleTestSuite) TestLogoutClosesSession() {
	suite.login()

	w, _ := suite.do(http.MethodPost, "/logout", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodGet, "/assets", nil)
	suite.Equal(http.StatusFound, w.Code)
}

func (suite *ConsoleTestSuite) TestHealth() {
	w, _ := suite.do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"healthy"`)
}

func TestConsoleSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}
