// internal/wallet/rpc_provider.go
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected = 4001
	codeUnauthorized = 4100
	codeUnknownChain = 4902
)

// RPCProvider talks to a wallet that exposes the provider methods over
// JSON-RPC, such as a desktop signer's local endpoint.
type RPCProvider struct {
	url string

	mu     sync.Mutex
	client *rpc.Client
}

// NewRPCProvider returns a provider for url. The connection is opened on
// first use.
func NewRPCProvider(url string) *RPCProvider {
	return &RPCProvider{url: url}
}

func (p *RPCProvider) conn(ctx context.Context) (*rpc.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := rpc.DialContext(ctx, p.url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet %s: %w", p.url, err)
	}
	p.client = client
	return client, nil
}

func (p *RPCProvider) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	client, err := p.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.CallContext(ctx, result, method, args...); err != nil {
		return mapProviderError(method, err)
	}
	return nil
}

func (p *RPCProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

func (p *RPCProvider) ChainID(ctx context.Context) (string, error) {
	var id string
	if err := p.call(ctx, &id, "eth_chainId"); err != nil {
		return "", err
	}
	return id, nil
}

func (p *RPCProvider) SwitchChain(ctx context.Context, chainID string) error {
	param := map[string]string{"chainId": chainID}
	return p.call(ctx, nil, "wallet_switchEthereumChain", param)
}

func (p *RPCProvider) SendTransaction(ctx context.Context, tx TxRequest) (string, error) {
	if tx.Value == nil {
		return "", errors.New("wallet: transaction value is required")
	}
	if !IsAddress(tx.To) {
		return "", fmt.Errorf("wallet: invalid recipient %q", tx.To)
	}
	param := map[string]string{
		"from":  tx.From,
		"to":    Checksum(tx.To),
		"value": hexutil.EncodeBig(tx.Value),
	}

	var hash string
	if err := p.call(ctx, &hash, "eth_sendTransaction", param); err != nil {
		return "", err
	}
	return hash, nil
}

// Close drops the underlying connection.
func (p *RPCProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

func mapProviderError(method string, err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected, codeUnauthorized:
			return fmt.Errorf("%s: %w: %s", method, ErrUserRejected, rpcErr.Error())
		case codeUnknownChain:
			return fmt.Errorf("%s: %w: %s", method, ErrUnrecognizedChain, rpcErr.Error())
		}
	}
	return fmt.Errorf("%s: %w", method, err)
}
