package integration_tests

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/getAlby/satshop.go/ln"
)

// MockGateway is an in-memory stand-in for the payment gateway. Invoices
// get deterministic payment hashes so tests can refer to them, and a test
// marks an invoice paid by calling mockPay.
type MockGateway struct {
	mu               sync.Mutex
	counter          int
	settlements      map[string]*ln.Settlement
	expirySeconds    int64
	createErr        error
	checkErr         error
	SettlementChecks int
}

func newMockGateway() *MockGateway {
	return &MockGateway{
		settlements:   map[string]*ln.Settlement{},
		expirySeconds: 3600,
	}
}

func (m *MockGateway) CreateInvoice(ctx context.Context, amountSats int64, memo string) (*ln.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.counter++
	hash := fmt.Sprintf("%064x", m.counter)
	m.settlements[hash] = &ln.Settlement{Settled: false, State: "OPEN"}
	return &ln.Invoice{
		PaymentHash:    hash,
		PaymentRequest: fmt.Sprintf("lnbcrt%d0n1mock%d", amountSats, m.counter),
		ExpirySeconds:  m.expirySeconds,
	}, nil
}

func (m *MockGateway) CheckSettlement(ctx context.Context, paymentHash string) (*ln.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SettlementChecks++
	if m.checkErr != nil {
		return nil, m.checkErr
	}
	settlement, ok := m.settlements[paymentHash]
	if !ok {
		return nil, errors.New("invoice not found on gateway")
	}
	return settlement, nil
}

// mockPay marks an invoice settled on the gateway side, the way a real
// payment would.
func (m *MockGateway) mockPay(paymentHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	settlement, ok := m.settlements[paymentHash]
	if !ok {
		return fmt.Errorf("unknown payment hash %s", paymentHash)
	}
	settlement.Settled = true
	settlement.State = ln.StateSettled
	return nil
}
