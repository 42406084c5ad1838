package regtest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// DefaultDepositAmount is used when a deposit is requested without an amount.
const DefaultDepositAmount = btcutil.Amount(100_000)

// ParseBTC converts a decimal whole-coin string such as "0.001" into sats.
func ParseBTC(s string) (btcutil.Amount, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid btc amount %q: %w", s, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid btc amount %q: negative", s)
	}
	amt, err := btcutil.NewAmount(f)
	if err != nil {
		return 0, fmt.Errorf("invalid btc amount %q: %w", s, err)
	}
	return amt, nil
}

// formatBTC renders sats as the fixed 8 decimal string bitcoind expects.
func formatBTC(a btcutil.Amount) string {
	return strconv.FormatFloat(a.ToBTC(), 'f', 8, 64)
}
