package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/getAlby/satshop.go/common"
	"github.com/getAlby/satshop.go/db/models"
	"github.com/getAlby/satshop.go/ln"
	"github.com/uptrace/bun"
)

func (svc *SatshopService) FindInvoiceByPaymentHash(ctx context.Context, paymentHash string) (*models.Invoice, error) {
	var invoice models.Invoice

	err := svc.DB.NewSelect().Model(&invoice).Where("payment_hash = ?", paymentHash).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &invoice, nil
}

// CountOutstandingInvoices counts a client's unpaid, unexpired invoices.
// The cap check reads this snapshot; a small overshoot under concurrent
// purchases is acceptable, unbounded growth is not.
func (svc *SatshopService) CountOutstandingInvoices(ctx context.Context, clientKey string) (int, error) {
	return svc.DB.NewSelect().
		Model((*models.Invoice)(nil)).
		Where("client_key = ? AND paid = false AND expires_at > ?", clientKey, time.Now()).
		Count(ctx)
}

// CreatePurchase asks the gateway for a new invoice for the given catalog
// entry and persists it unpaid. The gateway call happens before any store
// mutation: on gateway failure nothing is persisted.
func (svc *SatshopService) CreatePurchase(ctx context.Context, fileID int64, clientKey string) (*models.Invoice, error) {
	file, ok := svc.Catalog.Find(fileID)
	if !ok {
		return nil, ErrFileNotFound
	}

	outstanding, err := svc.CountOutstandingInvoices(ctx, clientKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	if outstanding >= svc.Config.MaxOutstandingInvoices {
		return nil, ErrTooManyOutstanding
	}

	memo := fmt.Sprintf("Purchase of %s", file.Name)
	gwInvoice, err := svc.Gateway.CreateInvoice(ctx, file.PriceSats, memo)
	if err != nil {
		svc.Logger.Errorf("Gateway invoice creation failed: file_id:%d client:%s error: %v", fileID, clientKey, err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	expirySeconds := gwInvoice.ExpirySeconds
	if expirySeconds == 0 {
		expirySeconds = ln.ExpiryFromPaymentRequest(gwInvoice.PaymentRequest)
	}
	if expirySeconds == 0 {
		expirySeconds = svc.Config.DefaultInvoiceExpiry
	}

	invoice := models.Invoice{
		PaymentHash:    gwInvoice.PaymentHash,
		FileID:         file.ID,
		Amount:         file.PriceSats,
		Memo:           memo,
		PaymentRequest: gwInvoice.PaymentRequest,
		ClientKey:      clientKey,
		ExpiresAt:      bun.NullTime{Time: time.Now().Add(time.Duration(expirySeconds) * time.Second)},
	}
	_, err = svc.DB.NewInsert().Model(&invoice).Exec(ctx)
	if err != nil {
		svc.Logger.Errorf("Error saving invoice: payment_hash:%s error: %v", invoice.PaymentHash, err)
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	svc.Logger.Infof("Created purchase invoice: payment_hash:%s file_id:%d amount:%d client:%s", invoice.PaymentHash, file.ID, file.PriceSats, clientKey)
	return &invoice, nil
}

// CheckPayment reports whether an invoice has settled and, if it has,
// returns a download token. Every poll of an already-paid invoice mints a
// fresh token; tokens are deliberately not cached per invoice.
func (svc *SatshopService) CheckPayment(ctx context.Context, paymentHash string) (paid bool, token *models.DownloadToken, err error) {
	invoice, err := svc.FindInvoiceByPaymentHash(ctx, paymentHash)
	if err != nil {
		return false, nil, err
	}

	if invoice.Paid {
		token, err = svc.IssueToken(ctx, invoice.FileID)
		if err != nil {
			return true, nil, err
		}
		return true, token, nil
	}

	// An expired unpaid invoice is inert. No gateway check, no token.
	if invoice.IsExpired() {
		return false, nil, nil
	}

	settlement, err := svc.Gateway.CheckSettlement(ctx, paymentHash)
	if err != nil {
		svc.Logger.Errorf("Gateway settlement check failed: payment_hash:%s error: %v", paymentHash, err)
		return false, nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	if !settlement.IsSettled() {
		return false, nil, nil
	}

	// Compare-and-swap paid transition: only the first of any concurrent
	// checks updates the row, everyone past this point may mint a token.
	res, err := svc.DB.NewUpdate().
		Model((*models.Invoice)(nil)).
		Set("paid = true").
		Set("settled_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("payment_hash = ? AND paid = false", paymentHash).
		Exec(ctx)
	if err != nil {
		svc.Logger.Errorf("Error settling invoice: payment_hash:%s error: %v", paymentHash, err)
		return false, nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if rows, _ := res.RowsAffected(); rows == 1 {
		svc.Logger.Infof("Invoice settled: payment_hash:%s file_id:%d amount:%d", paymentHash, invoice.FileID, invoice.Amount)
		invoice.Paid = true
		invoice.SettledAt = bun.NullTime{Time: time.Now()}
		svc.PurchasePubSub.Publish(common.TopicPurchaseSettled, *invoice)
	}

	token, err = svc.IssueToken(ctx, invoice.FileID)
	if err != nil {
		return true, nil, err
	}
	return true, token, nil
}
