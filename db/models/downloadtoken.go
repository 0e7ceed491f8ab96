package models

import (
	"time"
)

// DownloadToken : single-use download credential
//
// Created only when an invoice is observed paid. Deleted on consumption or
// swept after expiry, whichever happens first.
type DownloadToken struct {
	Token     string    `json:"token" bun:",pk"`
	FileID    int64     `json:"file_id" bun:",notnull"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	ExpiresAt time.Time `json:"expires_at" bun:",notnull"`
}

func (t *DownloadToken) IsExpired() bool {
	return t.ExpiresAt.Before(time.Now())
}
