// internal/wallet/units.go
package wallet

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// EtherDecimals is the number of base-unit decimals of one ether.
const EtherDecimals = 18

// ErrNonPositiveAmount is returned for zero or negative prices.
var ErrNonPositiveAmount = errors.New("wallet: amount must be greater than zero")

var weiPerEther = big.NewInt(params.Ether)

// ParseEther converts a decimal ether amount such as "0.5" into wei. The
// conversion is exact; more than 18 fractional digits is an error.
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("wallet: empty amount")
	}

	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("wallet: invalid amount %q", amount)
	}
	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("wallet: amount %q has more than %d decimals", amount, EtherDecimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// EtherToWei converts a listing price to wei, rejecting non-positive prices.
// The price is formatted with the shortest representation that round-trips,
// so 0.1 converts to exactly 10^17 wei.
func EtherToWei(price float64) (*big.Int, error) {
	if !(price > 0) {
		return nil, ErrNonPositiveAmount
	}
	return ParseEther(strconv.FormatFloat(price, 'f', -1, 64))
}
