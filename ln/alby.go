package ln

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AlbyClient talks to the Alby REST API. It is the default gateway, matching
// the hosted provider the shop was originally built on.
type AlbyClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewAlbyClient(c *Config) (*AlbyClient, error) {
	if c.AlbyAPIKey == "" {
		return nil, fmt.Errorf("Alby API key is missing")
	}
	return &AlbyClient{
		baseURL: c.AlbyAPIURL,
		apiKey:  c.AlbyAPIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(c.AlbyTimeoutSeconds) * time.Second,
		},
	}, nil
}

type albyCreateInvoiceRequest struct {
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}

func (c *AlbyClient) CreateInvoice(ctx context.Context, amountSats int64, memo string) (*Invoice, error) {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(&albyCreateInvoiceRequest{
		Amount: amountSats,
		Memo:   memo,
	})
	if err != nil {
		return nil, err
	}

	invoice := &Invoice{}
	err = c.doRequest(ctx, http.MethodPost, "/invoices", payload, invoice)
	if err != nil {
		return nil, err
	}
	if invoice.PaymentHash == "" || invoice.PaymentRequest == "" {
		return nil, fmt.Errorf("gateway returned an incomplete invoice")
	}
	return invoice, nil
}

func (c *AlbyClient) CheckSettlement(ctx context.Context, paymentHash string) (*Settlement, error) {
	settlement := &Settlement{}
	err := c.doRequest(ctx, http.MethodGet, "/invoices/"+paymentHash, nil, settlement)
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

func (c *AlbyClient) doRequest(ctx context.Context, method, path string, body io.Reader, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway request %s %s failed: status %d body %s", method, path, resp.StatusCode, msg)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
