package integration_tests

import (
	"context"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/getAlby/satshop.go/db/models"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
)

type SweeperTestSuite struct {
	TestSuite
	service *service.SatshopService
	mockGw  *MockGateway
}

func (suite *SweeperTestSuite) SetupSuite() {
	mockGw := newMockGateway()
	svc, err := satshopTestServiceInit(mockGw)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.mockGw = mockGw
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *SweeperTestSuite) TearDownTest() {
	assert.NoError(suite.T(), clearTable(suite.service, "invoices"))
	assert.NoError(suite.T(), clearTable(suite.service, "download_tokens"))
}

func (suite *SweeperTestSuite) TestSweepRemovesExpiredRecords() {
	ctx := context.Background()

	// paid invoice: kept as a purchase record regardless of expiry
	purchase := suite.createPurchaseReq(testFileID)
	assert.NoError(suite.T(), suite.mockGw.mockPay(purchase.PaymentHash))
	check := suite.checkPaymentReq(purchase.PaymentHash)
	assert.True(suite.T(), check.Paid)

	expiredInvoice := models.Invoice{
		PaymentHash:    "sweepme00000000000000000000000000000000000000000000000000000001",
		FileID:         testFileID,
		Amount:         1000,
		PaymentRequest: "lnbcrt10u1sweep",
		ClientKey:      "192.0.2.1",
		ExpiresAt:      bun.NullTime{Time: time.Now().Add(-time.Hour)},
	}
	_, err := suite.service.DB.NewInsert().Model(&expiredInvoice).Exec(ctx)
	assert.NoError(suite.T(), err)

	expiredToken := models.DownloadToken{
		Token:     "sweepme0token000000000000000000000000000000000000000000000000001",
		FileID:    testFileID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	_, err = suite.service.DB.NewInsert().Model(&expiredToken).Exec(ctx)
	assert.NoError(suite.T(), err)

	invoicesDeleted, tokensDeleted, err := suite.service.Sweep(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), invoicesDeleted)
	assert.Equal(suite.T(), int64(1), tokensDeleted)

	// the swept invoice now behaves as if it never existed
	suite.checkPaymentReqError(expiredInvoice.PaymentHash, http.StatusNotFound)

	// the paid invoice and its fresh token survive
	retained, err := suite.service.FindInvoiceByPaymentHash(ctx, purchase.PaymentHash)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), retained.Paid)
	_, err = suite.service.ResolveDownload(ctx, check.DownloadToken)
	assert.NoError(suite.T(), err)
}

func (suite *SweeperTestSuite) TestSweepNothingToDo() {
	invoicesDeleted, tokensDeleted, err := suite.service.Sweep(context.Background())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), invoicesDeleted)
	assert.Equal(suite.T(), int64(0), tokensDeleted)
}

func (suite *SweeperTestSuite) TestStatsCounts() {
	ctx := context.Background()

	purchase := suite.createPurchaseReq(testFileID)
	assert.NoError(suite.T(), suite.mockGw.mockPay(purchase.PaymentHash))
	check := suite.checkPaymentReq(purchase.PaymentHash)
	assert.True(suite.T(), check.Paid)

	stats, err := suite.service.GetStats(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, stats.InvoicesCount)
	assert.Equal(suite.T(), 1, stats.TokensCount)
	assert.Greater(suite.T(), stats.InvoicesSizeBytes, int64(0))
	assert.Greater(suite.T(), stats.TokensSizeBytes, int64(0))
}

func TestSweeperTestSuite(t *testing.T) {
	suite.Run(t, new(SweeperTestSuite))
}
