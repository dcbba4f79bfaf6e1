package services

import (
	"testing"
	"time"

	"payment-service/internal/gateway"
	"payment-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubGateway records initiation requests and serves canned fetch answers.
type stubGateway struct {
	invoices     []gateway.InvoiceRequest
	payouts      []gateway.PayoutRequest
	transactions map[string]*gateway.Transaction
	fetched      []string
}

func newStubGateway() *stubGateway {
	return &stubGateway{transactions: map[string]*gateway.Transaction{}}
}

func (g *stubGateway) CreateInvoicePayment(req gateway.InvoiceRequest) (string, error) {
	g.invoices = append(g.invoices, req)
	return "stub-invoice-token", nil
}

func (g *stubGateway) CreatePayout(req gateway.PayoutRequest) (string, error) {
	g.payouts = append(g.payouts, req)
	return "stub-payout-token", nil
}

func (g *stubGateway) FetchTransaction(token string, kind models.Kind) (*gateway.Transaction, error) {
	g.fetched = append(g.fetched, token)
	if tx, ok := g.transactions[token]; ok {
		return tx, nil
	}
	return &gateway.Transaction{Token: token, Status: gateway.StatusNotFound}, nil
}

func newTestPaymentService(t *testing.T) (*PaymentService, *stubGateway, *gorm.DB) {
	t.Helper()
	db := setupLedgerDB(t)
	helper := NewHelperService(db)
	gw := newStubGateway()
	svc := NewPaymentService(db, helper, gw, NewReconcileService(db, helper))
	return svc, gw, db
}

func TestInitiateDepositTagsCustomData(t *testing.T) {
	svc, gw, _ := newTestPaymentService(t)

	result, err := svc.InitiateDeposit(DepositDTO{
		UserId:        "u-1",
		Amount:        decimal.NewFromInt(2500),
		CustomerPhone: "+22670000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "stub-invoice-token", result.Token)

	require.Len(t, gw.invoices, 1)
	assert.Equal(t, "wallet_topup", gw.invoices[0].CustomData["type"])
	assert.Equal(t, "u-1", gw.invoices[0].CustomData["user_id"])
}

func TestInitiateWithdrawalTagsCustomData(t *testing.T) {
	svc, gw, _ := newTestPaymentService(t)

	_, err := svc.InitiateWithdrawal(WithdrawalDTO{
		UserId:        "u-2",
		Amount:        decimal.NewFromInt(1000),
		CustomerPhone: "+22670000001",
	})
	require.NoError(t, err)

	require.Len(t, gw.payouts, 1)
	assert.Equal(t, "wallet_withdrawal", gw.payouts[0].CustomData["type"])
	assert.Equal(t, "u-2", gw.payouts[0].CustomData["user_id"])
}

func TestInitiateOrderPaymentCarriesOrderAndPromo(t *testing.T) {
	svc, gw, _ := newTestPaymentService(t)

	_, err := svc.InitiateOrderPayment(OrderPaymentDTO{
		UserId:         "u-3",
		OrderId:        "O3",
		Amount:         decimal.NewFromInt(5000),
		CustomerPhone:  "+22670000002",
		PromoCodeId:    "PROMO5",
		DiscountAmount: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	require.Len(t, gw.invoices, 1)
	data := gw.invoices[0].CustomData
	assert.Equal(t, "payment", data["type"])
	assert.Equal(t, "O3", data["order_id"])
	assert.Equal(t, "PROMO5", data["promo_code_id"])
	assert.Equal(t, "250", data["discount_amount"])
}

func TestInitiateOrderPaymentOmitsEmptyPromoFields(t *testing.T) {
	svc, gw, _ := newTestPaymentService(t)

	_, err := svc.InitiateOrderPayment(OrderPaymentDTO{
		UserId:        "u-4",
		OrderId:       "O4",
		Amount:        decimal.NewFromInt(100),
		CustomerPhone: "+22670000003",
	})
	require.NoError(t, err)

	data := gw.invoices[0].CustomData
	_, hasPromo := data["promo_code_id"]
	_, hasDiscount := data["discount_amount"]
	assert.False(t, hasPromo)
	assert.False(t, hasDiscount)
}

func TestCheckStatusSyncsLedger(t *testing.T) {
	svc, gw, db := newTestPaymentService(t)
	seedWallet(t, db, "u-5", "0")

	gw.transactions["tok-50"] = &gateway.Transaction{
		Token:  "tok-50",
		Status: "completed",
		Amount: decimal.NewFromInt(1200),
		CustomData: map[string]interface{}{
			"type":    "wallet_topup",
			"user_id": "u-5",
		},
	}

	tx, result, err := svc.CheckStatus("tok-50", models.KindWalletTopup)
	require.NoError(t, err)
	assert.Equal(t, "completed", tx.Status)
	require.NotNil(t, result)
	assert.True(t, result.Applied)

	var row models.WalletTransaction
	require.NoError(t, db.Where("transaction_id = ?", "tok-50").First(&row).Error)
	assert.Equal(t, models.StatusSuccess, row.Status)
}

func TestCheckStatusNotFoundSkipsSync(t *testing.T) {
	svc, _, db := newTestPaymentService(t)

	tx, result, err := svc.CheckStatus("unknown-token", models.KindWalletTopup)
	require.NoError(t, err)
	assert.Equal(t, gateway.StatusNotFound, tx.Status)
	assert.Nil(t, result)

	var count int64
	db.Model(&models.WalletTransaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCheckStatusSkipsSyncWithoutUserId(t *testing.T) {
	svc, gw, db := newTestPaymentService(t)

	gw.transactions["tok-51"] = &gateway.Transaction{
		Token:      "tok-51",
		Status:     "completed",
		Amount:     decimal.NewFromInt(300),
		CustomData: map[string]interface{}{"type": "wallet_topup"},
	}

	tx, result, err := svc.CheckStatus("tok-51", models.KindWalletTopup)
	require.NoError(t, err)
	assert.Equal(t, "completed", tx.Status)
	assert.Nil(t, result)

	var count int64
	db.Model(&models.WalletTransaction{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReconcilePendingSweepsStaleRows(t *testing.T) {
	svc, gw, db := newTestPaymentService(t)
	wallet := seedWallet(t, db, "u-6", "0")

	stale := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.WalletTransaction{
		WalletId:      wallet.ID,
		WalletTxType:  models.WalletTxCredit,
		Amount:        decimal.NewFromInt(600),
		TransactionId: "tok-60",
		Status:        models.StatusPending,
	}).Error)
	db.Model(&models.WalletTransaction{}).Where("transaction_id = ?", "tok-60").Update("created_at", stale)

	require.NoError(t, db.Create(&models.ClientPayment{
		OrderId:       "O61",
		Amount:        decimal.NewFromInt(900),
		TransactionId: "tok-61",
		Status:        models.StatusPending,
	}).Error)
	db.Model(&models.ClientPayment{}).Where("transaction_id = ?", "tok-61").Update("created_at", stale)

	// A fresh PENDING row must not be polled yet.
	require.NoError(t, db.Create(&models.WalletTransaction{
		WalletId:      wallet.ID,
		WalletTxType:  models.WalletTxCredit,
		Amount:        decimal.NewFromInt(10),
		TransactionId: "tok-62",
		Status:        models.StatusPending,
	}).Error)

	gw.transactions["tok-60"] = &gateway.Transaction{
		Token:      "tok-60",
		Status:     "completed",
		Amount:     decimal.NewFromInt(600),
		CustomData: map[string]interface{}{"type": "wallet_topup", "user_id": "u-6"},
	}
	gw.transactions["tok-61"] = &gateway.Transaction{
		Token:      "tok-61",
		Status:     "failed",
		Amount:     decimal.NewFromInt(900),
		CustomData: map[string]interface{}{"type": "payment", "user_id": "u-6", "order_id": "O61"},
	}

	require.NoError(t, svc.ReconcilePending())

	assert.Contains(t, gw.fetched, "tok-60")
	assert.Contains(t, gw.fetched, "tok-61")
	assert.NotContains(t, gw.fetched, "tok-62")

	var topup models.WalletTransaction
	require.NoError(t, db.Where("transaction_id = ?", "tok-60").First(&topup).Error)
	assert.Equal(t, models.StatusSuccess, topup.Status)

	var payment models.ClientPayment
	require.NoError(t, db.Where("transaction_id = ?", "tok-61").First(&payment).Error)
	assert.Equal(t, models.StatusFailed, payment.Status)
}
