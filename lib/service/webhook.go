package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/getAlby/satshop.go/common"
	"github.com/getAlby/satshop.go/db/models"
)

// The webhook endpoint is someone else's server. Cap how long a single
// delivery may take so an unresponsive endpoint cannot wedge the routine.
var webhookHTTPClient = &http.Client{
	Timeout: 10 * time.Second,
}

func (svc *SatshopService) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	subId, settledPurchases, err := svc.PurchasePubSub.Subscribe(common.TopicPurchaseSettled)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer svc.PurchasePubSub.Unsubscribe(subId, common.TopicPurchaseSettled)
	for {
		select {
		case <-ctx.Done():
			return
		case settled := <-settledPurchases:
			svc.postToWebhook(settled, url)
		}
	}
}

func (svc *SatshopService) postToWebhook(invoice models.Invoice, url string) {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(invoice)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := webhookHTTPClient.Post(url, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
