// internal/wallet/address.go
package wallet

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength is the length of a 0x-prefixed hex address.
const AddressLength = 42

// HasAddressShape is the local form check used before any network call:
// a "0x" prefix and exactly 42 characters. It does not check hex digits.
func HasAddressShape(addr string) bool {
	return strings.HasPrefix(addr, "0x") && len(addr) == AddressLength
}

// IsAddress reports whether addr is a well-formed hex address.
func IsAddress(addr string) bool {
	return HasAddressShape(addr) && common.IsHexAddress(addr)
}

// Checksum returns the mixed-case checksummed form of addr.
func Checksum(addr string) string {
	return common.HexToAddress(addr).Hex()
}

// Short abbreviates an address for display: 0x1234…abcd.
func Short(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
