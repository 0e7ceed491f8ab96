package integration_tests

import (
	"context"
	"errors"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/getAlby/satshop.go/db/models"
	"github.com/getAlby/satshop.go/lib/responses"
	"github.com/getAlby/satshop.go/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
)

type CheckPaymentTestSuite struct {
	TestSuite
	service *service.SatshopService
	mockGw  *MockGateway
}

func (suite *CheckPaymentTestSuite) SetupSuite() {
	mockGw := newMockGateway()
	svc, err := satshopTestServiceInit(mockGw)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.mockGw = mockGw
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *CheckPaymentTestSuite) TearDownTest() {
	assert.NoError(suite.T(), clearTable(suite.service, "invoices"))
	assert.NoError(suite.T(), clearTable(suite.service, "download_tokens"))
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentUnknownHash() {
	suite.checkPaymentReqError("deadbeef", http.StatusNotFound)
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentUnpaid() {
	purchase := suite.createPurchaseReq(testFileID)

	check := suite.checkPaymentReq(purchase.PaymentHash)
	assert.False(suite.T(), check.Paid)
	assert.Empty(suite.T(), check.DownloadToken)
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentSettledMintsToken() {
	purchase := suite.createPurchaseReq(testFileID)
	assert.NoError(suite.T(), suite.mockGw.mockPay(purchase.PaymentHash))

	check := suite.checkPaymentReq(purchase.PaymentHash)
	assert.True(suite.T(), check.Paid)
	assert.NotEmpty(suite.T(), check.DownloadToken)

	invoice, err := suite.service.FindInvoiceByPaymentHash(context.Background(), purchase.PaymentHash)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), invoice.Paid)
	assert.False(suite.T(), invoice.SettledAt.IsZero())

	file, err := suite.service.ResolveDownload(context.Background(), check.DownloadToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), testFileID, file.ID)
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentRepeatedPollMintsFreshToken() {
	purchase := suite.createPurchaseReq(testFileID)
	assert.NoError(suite.T(), suite.mockGw.mockPay(purchase.PaymentHash))

	first := suite.checkPaymentReq(purchase.PaymentHash)
	second := suite.checkPaymentReq(purchase.PaymentHash)
	assert.True(suite.T(), first.Paid)
	assert.True(suite.T(), second.Paid)
	assert.NotEmpty(suite.T(), second.DownloadToken)
	assert.NotEqual(suite.T(), first.DownloadToken, second.DownloadToken)

	// both tokens stay valid until consumed
	_, err := suite.service.ResolveDownload(context.Background(), first.DownloadToken)
	assert.NoError(suite.T(), err)
	_, err = suite.service.ResolveDownload(context.Background(), second.DownloadToken)
	assert.NoError(suite.T(), err)
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentExpiredInvoiceIsInert() {
	ctx := context.Background()
	expired := models.Invoice{
		PaymentHash:    "expired0000000000000000000000000000000000000000000000000000dead",
		FileID:         testFileID,
		Amount:         1000,
		PaymentRequest: "lnbcrt10u1expired",
		ClientKey:      "192.0.2.1",
		ExpiresAt:      bun.NullTime{Time: time.Now().Add(-time.Hour)},
	}
	_, err := suite.service.DB.NewInsert().Model(&expired).Exec(ctx)
	assert.NoError(suite.T(), err)

	checksBefore := suite.mockGw.SettlementChecks
	check := suite.checkPaymentReq(expired.PaymentHash)
	assert.False(suite.T(), check.Paid)
	assert.Empty(suite.T(), check.DownloadToken)
	// no gateway round trip for a dead invoice
	assert.Equal(suite.T(), checksBefore, suite.mockGw.SettlementChecks)
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentGatewayFailureLeavesInvoiceRetryable() {
	purchase := suite.createPurchaseReq(testFileID)
	assert.NoError(suite.T(), suite.mockGw.mockPay(purchase.PaymentHash))

	suite.mockGw.checkErr = errors.New("gateway is down")
	errorResponse := suite.checkPaymentReqError(purchase.PaymentHash, http.StatusInternalServerError)
	assert.Equal(suite.T(), responses.GatewayError.Message, errorResponse.Message)

	// the invoice is untouched and the next poll succeeds
	invoice, err := suite.service.FindInvoiceByPaymentHash(context.Background(), purchase.PaymentHash)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), invoice.Paid)

	suite.mockGw.checkErr = nil
	check := suite.checkPaymentReq(purchase.PaymentHash)
	assert.True(suite.T(), check.Paid)
	assert.NotEmpty(suite.T(), check.DownloadToken)
}

func (suite *CheckPaymentTestSuite) TestCheckPaymentGatewayNotSettled() {
	purchase := suite.createPurchaseReq(testFileID)

	checksBefore := suite.mockGw.SettlementChecks
	check := suite.checkPaymentReq(purchase.PaymentHash)
	assert.False(suite.T(), check.Paid)
	assert.Equal(suite.T(), checksBefore+1, suite.mockGw.SettlementChecks)
}

func TestCheckPaymentTestSuite(t *testing.T) {
	suite.Run(t, new(CheckPaymentTestSuite))
}
