package ln

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/zpay32"
)

func DecodePaymentRequest(bolt11 string) (*zpay32.Invoice, error) {
	if len(bolt11) < 2 {
		return nil, fmt.Errorf("payment request too short: %q", bolt11)
	}
	return zpay32.Decode(bolt11, ChainFromCurrency(bolt11[2:]))
}

// ExpiryFromPaymentRequest extracts the expiry encoded in a bolt11 payment
// request, in seconds. Returns 0 when the request cannot be decoded, so
// callers fall through to their default.
func ExpiryFromPaymentRequest(bolt11 string) int64 {
	decoded, err := DecodePaymentRequest(bolt11)
	if err != nil {
		return 0
	}
	return int64(decoded.Expiry().Seconds())
}

func ChainFromCurrency(currency string) *chaincfg.Params {
	if strings.HasPrefix(currency, "bcrt") {
		return &chaincfg.RegressionNetParams
	} else if strings.HasPrefix(currency, "tb") {
		return &chaincfg.TestNet3Params
	} else if strings.HasPrefix(currency, "sb") {
		return &chaincfg.SimNetParams
	} else {
		return &chaincfg.MainNetParams
	}
}
