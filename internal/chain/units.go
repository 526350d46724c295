package chain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const etherDecimals = 18

// FormatEther renders a wei amount in ether without rounding. Trailing zeros
// are dropped but at least one fractional digit is kept: 0 -> "0.0".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}

	s := decimal.NewFromBigInt(wei, -etherDecimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
