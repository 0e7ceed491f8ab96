package service

import (
	"context"
	"sync"

	"github.com/getAlby/satshop.go/common"
	"github.com/getAlby/satshop.go/db/models"
)

// purchaseEventBuffer bounds how many settled purchases a slow subscriber
// can have queued. Publish never waits on a subscriber: events beyond the
// buffer are dropped for that subscriber.
const purchaseEventBuffer = 32

type Pubsub struct {
	mu   sync.RWMutex
	subs map[string]map[string]chan models.Invoice
}

func NewPubsub() *Pubsub {
	ps := &Pubsub{}
	ps.subs = make(map[string]map[string]chan models.Invoice)
	return ps
}

func (ps *Pubsub) Subscribe(topic string) (subId string, ch chan models.Invoice, err error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		ps.subs[topic] = make(map[string]chan models.Invoice)
	}
	subId, err = randomHex(16)
	if err != nil {
		return "", nil, err
	}
	ch = make(chan models.Invoice, purchaseEventBuffer)
	ps.subs[topic][subId] = ch
	return subId, ch, nil
}

func (ps *Pubsub) Unsubscribe(id string, topic string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.subs[topic] == nil {
		return
	}
	if ps.subs[topic][id] == nil {
		return
	}
	close(ps.subs[topic][id])
	delete(ps.subs[topic], id)
}

// SubscribeSettledPurchases is the subscription hook handed to external
// publishers (webhook, rabbitmq).
func (svc *SatshopService) SubscribeSettledPurchases(ctx context.Context) (chan models.Invoice, func(), error) {
	subId, ch, err := svc.PurchasePubSub.Subscribe(common.TopicPurchaseSettled)
	if err != nil {
		return nil, nil, err
	}
	return ch, func() {
		svc.PurchasePubSub.Unsubscribe(subId, common.TopicPurchaseSettled)
	}, nil
}

// Publish fans a message out to every subscriber of the topic. It runs on
// the request path of a settling payment, so it must not wait on anyone:
// a subscriber with a full buffer misses the event.
func (ps *Pubsub) Publish(topic string, msg models.Invoice) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	if ps.subs[topic] == nil {
		return
	}

	for _, ch := range ps.subs[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
}
