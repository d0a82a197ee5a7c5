// internal/wallet/provider.go

// Package wallet drives an EIP-1193 style wallet provider: account access,
// chain queries and switches, and payment transaction submission. Every call
// may block on the user confirming in the wallet UI.
package wallet

import (
	"context"
	"errors"
	"math/big"
	"strings"
)

var (
	// ErrUserRejected is returned when the user declines a wallet prompt.
	ErrUserRejected = errors.New("wallet: request rejected by user")
	// ErrUnrecognizedChain is returned when the wallet does not know the
	// chain it was asked to switch to.
	ErrUnrecognizedChain = errors.New("wallet: unrecognized chain")
	// ErrNoAccounts is returned when account access yields no address.
	ErrNoAccounts = errors.New("wallet: no accounts available")
)

// TxRequest is a plain value transfer.
type TxRequest struct {
	From  string
	To    string
	Value *big.Int
}

// Provider is the wallet surface used by the purchase flow.
type Provider interface {
	// RequestAccounts asks for account access and returns the addresses the
	// user exposed, primary account first.
	RequestAccounts(ctx context.Context) ([]string, error)
	// ChainID returns the active chain as a 0x-prefixed hex quantity.
	ChainID(ctx context.Context) (string, error)
	// SwitchChain asks the wallet to make chainID active.
	SwitchChain(ctx context.Context, chainID string) error
	// SendTransaction submits tx and returns its hash once broadcast. It does
	// not wait for on-chain confirmation.
	SendTransaction(ctx context.Context, tx TxRequest) (string, error)
}

// SameChain compares two hex chain ids, ignoring case and leading zeros.
func SameChain(a, b string) bool {
	return normalizeChainID(a) == normalizeChainID(b)
}

func normalizeChainID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "0x")
	id = strings.TrimLeft(id, "0")
	return id
}
