package ln

import (
	"context"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/ziflex/lecho/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"gopkg.in/macaroon.v2"
)

// LNDGateway creates and looks up invoices directly on an lnd node over
// gRPC, for operators running their own node instead of a hosted provider.
type LNDGateway struct {
	client        lnrpc.LightningClient
	conn          *grpc.ClientConn
	expirySeconds int64
}

func InitLNDGateway(c *Config, logger *lecho.Logger, ctx context.Context) (result *LNDGateway, err error) {
	gw, err := NewLNDGateway(c)
	if err != nil {
		return nil, err
	}

	// The node may still be starting up, retry GetInfo before serving.
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.MaxInterval = time.Second * 10
	exponentialBackoff.MaxElapsedTime = time.Minute
	var getInfo *lnrpc.GetInfoResponse
	err = backoff.Retry(func() error {
		getInfo, err = gw.client.GetInfo(ctx, &lnrpc.GetInfoRequest{})
		return err
	}, exponentialBackoff)
	if err != nil {
		return nil, err
	}
	logger.Infof("Connected to lnd: %s", getInfo.IdentityPubkey)
	return gw, nil
}

func NewLNDGateway(c *Config) (*LNDGateway, error) {
	if c.LNDAddress == "" {
		return nil, fmt.Errorf("LND address is missing")
	}

	// Get credentials either from a hex string or a file
	var creds credentials.TransportCredentials
	// if a hex string is provided
	if c.LNDCertHex != "" {
		cp := x509.NewCertPool()
		cert, err := hex.DecodeString(c.LNDCertHex)
		if err != nil {
			return nil, err
		}
		cp.AppendCertsFromPEM(cert)
		creds = credentials.NewClientTLSFromCert(cp, "")
		// if a path to a cert file is provided
	} else if c.LNDCertFile != "" {
		credsFromFile, err := credentials.NewClientTLSFromFile(c.LNDCertFile, "")
		if err != nil {
			return nil, err
		}
		creds = credsFromFile
	} else {
		return nil, fmt.Errorf("LND credential is missing")
	}

	var macaroonData []byte
	if c.LNDMacaroonHex != "" {
		macBytes, err := hex.DecodeString(c.LNDMacaroonHex)
		if err != nil {
			return nil, err
		}
		macaroonData = macBytes
	} else if c.LNDMacaroonFile != "" {
		macBytes, err := os.ReadFile(c.LNDMacaroonFile)
		if err != nil {
			return nil, err
		}
		macaroonData = macBytes
	} else {
		return nil, fmt.Errorf("LND macaroon is missing")
	}

	mac := &macaroon.Macaroon{}
	if err := mac.UnmarshalBinary(macaroonData); err != nil {
		return nil, err
	}

	conn, err := grpc.Dial(c.LNDAddress,
		grpc.WithTransportCredentials(creds),
		grpc.WithPerRPCCredentials(macaroonCredential{macaroon: hex.EncodeToString(macaroonData)}),
	)
	if err != nil {
		return nil, err
	}

	return &LNDGateway{
		client:        lnrpc.NewLightningClient(conn),
		conn:          conn,
		expirySeconds: c.InvoiceExpirySeconds,
	}, nil
}

func (gw *LNDGateway) CreateInvoice(ctx context.Context, amountSats int64, memo string) (*Invoice, error) {
	res, err := gw.client.AddInvoice(ctx, &lnrpc.Invoice{
		Memo:   memo,
		Value:  amountSats,
		Expiry: gw.expirySeconds,
	})
	if err != nil {
		return nil, err
	}
	return &Invoice{
		PaymentHash:    hex.EncodeToString(res.RHash),
		PaymentRequest: res.PaymentRequest,
		ExpirySeconds:  gw.expirySeconds,
	}, nil
}

func (gw *LNDGateway) CheckSettlement(ctx context.Context, paymentHash string) (*Settlement, error) {
	rawHash, err := hex.DecodeString(paymentHash)
	if err != nil {
		return nil, err
	}
	inv, err := gw.client.LookupInvoice(ctx, &lnrpc.PaymentHash{RHash: rawHash})
	if err != nil {
		return nil, err
	}
	return &Settlement{
		Settled: inv.State == lnrpc.Invoice_SETTLED,
		State:   inv.State.String(),
	}, nil
}

func (gw *LNDGateway) Close() error {
	return gw.conn.Close()
}

type macaroonCredential struct {
	macaroon string
}

func (m macaroonCredential) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"macaroon": m.macaroon}, nil
}

func (m macaroonCredential) RequireTransportSecurity() bool {
	return true
}
