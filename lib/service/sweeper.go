package service

import (
	"context"
	"time"

	"github.com/getAlby/satshop.go/db/models"
	"github.com/getsentry/sentry-go"
)

// StartSweeperRoutine periodically removes expired unpaid invoices and
// expired tokens until ctx is cancelled. Sweep failures are reported and
// skipped; the routine never brings the process down.
func (svc *SatshopService) StartSweeperRoutine(ctx context.Context) {
	interval := time.Duration(svc.Config.SweepInterval) * time.Second
	svc.Logger.Infof("Starting sweeper routine with interval %v", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			invoices, tokens, err := svc.Sweep(ctx)
			if err != nil {
				sentry.CaptureException(err)
				svc.Logger.Errorf("Sweep failed: %v", err)
				continue
			}
			svc.Logger.Infof("Sweep done: removed %d expired invoices, %d expired tokens", invoices, tokens)
		}
	}
}

// Sweep deletes unpaid invoices past expiry and tokens past expiry. Paid
// invoices are retained. Deletions race harmlessly with in-flight requests:
// a read that finds a record gone behaves as if it never existed.
func (svc *SatshopService) Sweep(ctx context.Context) (invoicesDeleted, tokensDeleted int64, err error) {
	res, err := svc.DB.NewDelete().
		Model((*models.Invoice)(nil)).
		Where("paid = false AND expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, 0, err
	}
	invoicesDeleted, _ = res.RowsAffected()

	res, err = svc.DB.NewDelete().
		Model((*models.DownloadToken)(nil)).
		Where("expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return invoicesDeleted, 0, err
	}
	tokensDeleted, _ = res.RowsAffected()

	return invoicesDeleted, tokensDeleted, nil
}
