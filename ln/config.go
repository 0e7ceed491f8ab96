package ln

import (
	"github.com/kelseyhightower/envconfig"
)

const (
	ALBY_CLIENT_TYPE = "alby"
	LND_CLIENT_TYPE  = "lnd"
)

type Config struct {
	GatewayType          string `envconfig:"GATEWAY_TYPE" default:"alby"` //alby, lnd
	AlbyAPIURL           string `envconfig:"ALBY_API_URL" default:"https://api.getalby.com"`
	AlbyAPIKey           string `envconfig:"ALBY_API_KEY"`
	AlbyTimeoutSeconds   int    `envconfig:"ALBY_TIMEOUT_SECONDS" default:"30"`
	LNDAddress           string `envconfig:"LND_ADDRESS"`
	LNDMacaroonFile      string `envconfig:"LND_MACAROON_FILE"`
	LNDCertFile          string `envconfig:"LND_CERT_FILE"`
	LNDMacaroonHex       string `envconfig:"LND_MACAROON_HEX"`
	LNDCertHex           string `envconfig:"LND_CERT_HEX"`
	InvoiceExpirySeconds int64  `envconfig:"INVOICE_EXPIRY_SECONDS" default:"3600"`
}

func LoadConfig() (c *Config, err error) {
	c = &Config{}
	err = envconfig.Process("", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
