package scanner

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatQuantity renders raw/10^decimals as an exact decimal string with
// trailing zeros trimmed. decimal.Decimal keeps full precision, so amounts
// with 18 fractional digits survive unchanged.
//
//	FormatQuantity(1500000, 6)  -> "1.5"
//	FormatQuantity(1000000, 6)  -> "1"
//	FormatQuantity(12345, 0)    -> "12345"
func FormatQuantity(raw *big.Int, decimals int) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}
	if decimals == 0 {
		return raw.String()
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).String()
}

// formatUint is FormatQuantity for unsigned integer balances.
func formatUint(raw uint64, decimals int) string {
	return FormatQuantity(new(big.Int).SetUint64(raw), decimals)
}

// parseHexBalance parses a 0x-prefixed hex balance string.
func parseHexBalance(s string) (*big.Int, error) {
	t := strings.TrimPrefix(s, "0x")
	if t == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(t, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex balance %q", s)
	}
	return n, nil
}
