// internal/models/transaction.go
package models

// PaymentTag identifies the payment method on a settlement request.
type PaymentTag string

const (
	PaymentTagSepoliaETH PaymentTag = "SEPOLIA_ETH"
)

// BuyLicenseRequest is the body of POST /buy-license. The backend verifies
// PaymentTxHash on chain before settling.
type BuyLicenseRequest struct {
	ListingID     int64      `json:"listingId"`
	PaymentTxHash string     `json:"paymentTxHash"`
	Token         PaymentTag `json:"token"`
}

// Settlement is the backend's answer to a successful purchase.
type Settlement struct {
	TxHash string `json:"txHash"`
}

// ServerWallet carries the settlement-receiving address.
type ServerWallet struct {
	Wallet string `json:"wallet"`
}
