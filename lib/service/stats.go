package service

import (
	"context"
	"fmt"

	"github.com/getAlby/satshop.go/db/models"
)

// Per-record byte estimates from the fixed field widths of the two models,
// so the stats endpoint can report approximate store size without walking
// records.
const (
	invoiceRecordBytes = 64 + 8 + 8 + 64 + 512 + 1 + 64 + 4*8 // hash, file id, amount, memo, bolt11, paid, client key, timestamps
	tokenRecordBytes   = 64 + 8 + 2*8                         // token, file id, timestamps
)

type Stats struct {
	InvoicesCount     int   `json:"invoicesCount"`
	TokensCount       int   `json:"tokensCount"`
	InvoicesSizeBytes int64 `json:"invoicesSizeBytes"`
	TokensSizeBytes   int64 `json:"tokensSizeBytes"`
}

func (svc *SatshopService) GetStats(ctx context.Context) (*Stats, error) {
	invoices, err := svc.DB.NewSelect().Model((*models.Invoice)(nil)).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	tokens, err := svc.DB.NewSelect().Model((*models.DownloadToken)(nil)).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &Stats{
		InvoicesCount:     invoices,
		TokensCount:       tokens,
		InvoicesSizeBytes: int64(invoices) * invoiceRecordBytes,
		TokensSizeBytes:   int64(tokens) * tokenRecordBytes,
	}, nil
}
