package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/getAlby/satshop.go/catalog"
	"github.com/getAlby/satshop.go/db/models"
)

// tokenBytes is the entropy of a download token. 32 random bytes, hex
// encoded, makes collisions and guessing negligible.
const tokenBytes = 32

const issueTokenMaxAttempts = 3

// IssueToken mints a fresh single-use download token for a catalog entry.
// A primary key collision is retried with a new random value.
func (svc *SatshopService) IssueToken(ctx context.Context, fileID int64) (*models.DownloadToken, error) {
	for attempt := 0; attempt < issueTokenMaxAttempts; attempt++ {
		value, err := randomHex(tokenBytes)
		if err != nil {
			return nil, err
		}
		token := models.DownloadToken{
			Token:     value,
			FileID:    fileID,
			ExpiresAt: time.Now().Add(time.Duration(svc.Config.TokenExpiry) * time.Second),
		}
		res, err := svc.DB.NewInsert().Model(&token).On("CONFLICT DO NOTHING").Exec(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
		if rows, _ := res.RowsAffected(); rows == 1 {
			return &token, nil
		}
		svc.Logger.Errorf("Download token collision, retrying: file_id:%d", fileID)
	}
	return nil, fmt.Errorf("%w: could not generate a unique download token", ErrStore)
}

// ResolveDownload validates a token and resolves the catalog entry it
// grants. It does not consume the token; the caller consumes it with
// ConsumeToken after the transfer succeeded, so a failed transfer can be
// retried.
func (svc *SatshopService) ResolveDownload(ctx context.Context, tokenValue string) (catalog.File, error) {
	var token models.DownloadToken
	err := svc.DB.NewSelect().Model(&token).Where("token = ?", tokenValue).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.File{}, ErrInvalidToken
		}
		return catalog.File{}, fmt.Errorf("%w: %v", ErrStore, err)
	}

	if token.IsExpired() {
		// Stale record, drop it on sight.
		if err := svc.ConsumeToken(ctx, tokenValue); err != nil {
			svc.Logger.Errorf("Error deleting expired token: %v", err)
		}
		return catalog.File{}, ErrTokenExpired
	}

	file, ok := svc.Catalog.Find(token.FileID)
	if !ok {
		return catalog.File{}, ErrFileNotFound
	}
	return file, nil
}

// ConsumeToken deletes a token. Deleting an already-gone token is a no-op.
func (svc *SatshopService) ConsumeToken(ctx context.Context, tokenValue string) error {
	_, err := svc.DB.NewDelete().
		Model((*models.DownloadToken)(nil)).
		Where("token = ?", tokenValue).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}
