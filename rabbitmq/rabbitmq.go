package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"

	"github.com/getAlby/satshop.go/db/models"
)

const (
	defaultHeartbeat  = 10 * time.Second
	defaultLocale     = "en_US"
	settledRoutingKey = "purchase.settled"
)

// SubscribeToPurchasesFunc hands the publisher a channel of settled
// purchases plus an unsubscribe func to release it.
type SubscribeToPurchasesFunc = func(ctx context.Context) (settled chan models.Invoice, unsubscribe func(), err error)

type Client interface {
	// StartPublishPurchases publishes every settled purchase to the
	// configured exchange until ctx is cancelled.
	StartPublishPurchases(ctx context.Context, subscribe SubscribeToPurchasesFunc) error
	Close() error
}

type ClientOption = func(client *DefaultClient)

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func WithExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.exchange = exchange
	}
}

type DefaultClient struct {
	uri            string
	conn           *amqp.Connection
	publishChannel *amqp.Channel
	exchange       string
	logger         *lecho.Logger
}

func Dial(uri string, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		uri:      uri,
		exchange: "satshop_purchase",
	}
	for _, opt := range options {
		opt(client)
	}

	err := client.connect()
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (c *DefaultClient) connect() error {
	conn, err := amqp.DialConfig(c.uri, amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(time.Second * 3),
	})
	if err != nil {
		return err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return err
	}

	err = publishChannel.ExchangeDeclare(
		c.exchange,
		// topic is a type of exchange that allows routing messages to
		// different queues based on the routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges survive server restarts
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	c.conn = conn
	c.publishChannel = publishChannel
	return nil
}

func (c *DefaultClient) Close() error {
	return c.conn.Close()
}

func (c *DefaultClient) StartPublishPurchases(ctx context.Context, subscribe SubscribeToPurchasesFunc) error {
	settled, unsubscribe, err := subscribe(ctx)
	if err != nil {
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case purchase := <-settled:
			err := c.publishPurchase(ctx, purchase)
			if err != nil {
				c.logger.Error(err)
			}
		}
	}
}

func (c *DefaultClient) publishPurchase(ctx context.Context, purchase models.Invoice) error {
	payload := new(bytes.Buffer)
	if err := json.NewEncoder(payload).Encode(purchase); err != nil {
		return err
	}

	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.MaxInterval = time.Second * 10
	exponentialBackoff.MaxElapsedTime = time.Minute
	return backoff.Retry(func() error {
		err := c.publishChannel.PublishWithContext(ctx,
			c.exchange,
			settledRoutingKey,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        payload.Bytes(),
			},
		)
		if err != nil {
			c.logger.Errorf("Error publishing purchase, retrying: payment_hash:%s error: %v", purchase.PaymentHash, err)
			// The channel may have died with the connection, try to get a
			// fresh one before the next attempt.
			if c.conn.IsClosed() {
				if connErr := c.connect(); connErr != nil {
					return connErr
				}
			}
		}
		return err
	}, backoff.WithContext(exponentialBackoff, ctx))
}
