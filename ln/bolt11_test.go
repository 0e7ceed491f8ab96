package ln

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
)

func TestChainFromCurrency(t *testing.T) {
	assert.Equal(t, &chaincfg.RegressionNetParams, ChainFromCurrency("bcrt"))
	assert.Equal(t, &chaincfg.TestNet3Params, ChainFromCurrency("tb"))
	assert.Equal(t, &chaincfg.SimNetParams, ChainFromCurrency("sb"))
	assert.Equal(t, &chaincfg.MainNetParams, ChainFromCurrency("bc"))
}

func TestDecodePaymentRequestShortInput(t *testing.T) {
	// must error, not slice out of range
	_, err := DecodePaymentRequest("")
	assert.Error(t, err)
	_, err = DecodePaymentRequest("l")
	assert.Error(t, err)
}

func TestExpiryFromPaymentRequestGarbage(t *testing.T) {
	assert.Equal(t, int64(0), ExpiryFromPaymentRequest(""))
	assert.Equal(t, int64(0), ExpiryFromPaymentRequest("x"))
	assert.Equal(t, int64(0), ExpiryFromPaymentRequest("lnbc-not-a-real-invoice"))
}
