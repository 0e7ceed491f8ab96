package service

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/getAlby/satshop.go/catalog"
	"github.com/getAlby/satshop.go/ln"
	"github.com/getAlby/satshop.go/rabbitmq"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

type SatshopService struct {
	Config         *Config
	DB             *bun.DB
	Gateway        ln.GatewayWrapper
	Catalog        *catalog.Catalog
	Logger         *lecho.Logger
	PurchasePubSub *Pubsub
	RabbitMQClient rabbitmq.Client
}

func randomHex(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
