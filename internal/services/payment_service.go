package services

import (
	"log"
	"time"

	"payment-service/internal/gateway"
	"payment-service/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// PaymentService drives the gateway side of a transaction: initiation, the
// synchronous status poll, and the periodic sweep of stale PENDING rows.
// It is written against the gateway capability set only; the concrete client
// (real or simulated) is chosen at composition time.
type PaymentService struct {
	DB         *gorm.DB
	Helper     *HelperService
	Gateway    gateway.Client
	Reconciler *ReconcileService
}

func NewPaymentService(db *gorm.DB, helper *HelperService, gw gateway.Client, reconciler *ReconcileService) *PaymentService {
	return &PaymentService{
		DB:         db,
		Helper:     helper,
		Gateway:    gw,
		Reconciler: reconciler,
	}
}

type DepositDTO struct {
	UserId            string          `json:"user_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	CustomerPhone     string          `json:"customer_phone" binding:"required"`
	OTP               string          `json:"otp"`
	Description       string          `json:"description"`
	CustomerFirstName string          `json:"customer_firstname"`
	CustomerLastName  string          `json:"customer_lastname"`
	CustomerEmail     string          `json:"customer_email"`
}

type WithdrawalDTO struct {
	UserId        string          `json:"user_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CustomerPhone string          `json:"customer_phone" binding:"required"`
	Description   string          `json:"description"`
}

type OrderPaymentDTO struct {
	UserId            string          `json:"user_id" binding:"required"`
	OrderId           string          `json:"order_id" binding:"required"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	CustomerPhone     string          `json:"customer_phone" binding:"required"`
	OTP               string          `json:"otp"`
	Description       string          `json:"description"`
	PromoCodeId       string          `json:"promo_code_id"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	CustomerFirstName string          `json:"customer_firstname"`
	CustomerLastName  string          `json:"customer_lastname"`
	CustomerEmail     string          `json:"customer_email"`
}

type InitiationResult struct {
	Token  string `json:"token"`
	Status string `json:"status"`
}

// InitiateDeposit starts a wallet topup pay-in.
func (s *PaymentService) InitiateDeposit(req DepositDTO) (*InitiationResult, error) {
	token, err := s.Gateway.CreateInvoicePayment(gateway.InvoiceRequest{
		Amount:            req.Amount,
		CustomerPhone:     req.CustomerPhone,
		OTP:               req.OTP,
		Description:       req.Description,
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerEmail:     req.CustomerEmail,
		CustomData: map[string]interface{}{
			"type":    "wallet_topup",
			"user_id": req.UserId,
		},
	})
	if err != nil {
		return nil, err
	}
	return &InitiationResult{Token: token, Status: "initiated"}, nil
}

// InitiateWithdrawal starts a wallet withdrawal pay-out.
func (s *PaymentService) InitiateWithdrawal(req WithdrawalDTO) (*InitiationResult, error) {
	token, err := s.Gateway.CreatePayout(gateway.PayoutRequest{
		Amount:        req.Amount,
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
		CustomData: map[string]interface{}{
			"type":    "wallet_withdrawal",
			"user_id": req.UserId,
		},
	})
	if err != nil {
		return nil, err
	}
	return &InitiationResult{Token: token, Status: "initiated"}, nil
}

// InitiateOrderPayment starts a client order pay-in.
func (s *PaymentService) InitiateOrderPayment(req OrderPaymentDTO) (*InitiationResult, error) {
	customData := map[string]interface{}{
		"type":     "payment",
		"user_id":  req.UserId,
		"order_id": req.OrderId,
	}
	if req.PromoCodeId != "" {
		customData["promo_code_id"] = req.PromoCodeId
	}
	if !req.DiscountAmount.IsZero() {
		customData["discount_amount"] = req.DiscountAmount.String()
	}

	token, err := s.Gateway.CreateInvoicePayment(gateway.InvoiceRequest{
		Amount:            req.Amount,
		CustomerPhone:     req.CustomerPhone,
		OTP:               req.OTP,
		Description:       req.Description,
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerEmail:     req.CustomerEmail,
		CustomData:        customData,
	})
	if err != nil {
		return nil, err
	}
	return &InitiationResult{Token: token, Status: "initiated"}, nil
}

// CheckStatus polls the gateway for a token and syncs the result into the
// ledger. The sync is best effort: a reconcile failure is logged but does not
// mask the status returned to the caller.
func (s *PaymentService) CheckStatus(token string, kind models.Kind) (*gateway.Transaction, *ReconcileResult, error) {
	tx, err := s.Gateway.FetchTransaction(token, kind)
	if err != nil {
		return nil, nil, err
	}
	if tx.Status == gateway.StatusNotFound {
		return tx, nil, nil
	}
	return tx, s.syncTransaction(tx), nil
}

func (s *PaymentService) syncTransaction(tx *gateway.Transaction) *ReconcileResult {
	customData := ParseCustomData(tx.CustomData)

	if cast.ToString(customData["user_id"]) == "" {
		log.Printf("Status check for %s carries no user id, skipping ledger sync", tx.Token)
		return nil
	}

	kind, ok := KindFromCustomData(customData)
	if !ok {
		log.Printf("Status check for %s carries unknown transaction type, skipping ledger sync", tx.Token)
		return nil
	}

	result, err := s.Reconciler.Reconcile(TransactionEvent{
		Token:        tx.Token,
		Kind:         kind,
		Status:       MapGatewayStatus(tx.Status),
		Amount:       tx.Amount,
		OperatorName: tx.OperatorName,
		CustomData:   customData,
	})
	if err != nil {
		log.Printf("Error syncing status check for %s: %v", tx.Token, err)
		return nil
	}
	return result
}

// Rows still PENDING after this long are re-polled by the scheduler.
const pendingGracePeriod = 10 * time.Minute

const pendingSweepBatch = 100

// ReconcilePending re-polls the gateway for ledger rows stuck in PENDING and
// feeds the answers back through the reconciliation engine.
func (s *PaymentService) ReconcilePending() error {
	cutoff := time.Now().Add(-pendingGracePeriod)

	var payments []models.ClientPayment
	if err := s.DB.Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Limit(pendingSweepBatch).Find(&payments).Error; err != nil {
		return err
	}
	for _, p := range payments {
		if _, _, err := s.CheckStatus(p.TransactionId, models.KindClientPayment); err != nil {
			log.Printf("Pending sweep: status check failed for %s: %v", p.TransactionId, err)
		}
	}

	var transactions []models.WalletTransaction
	if err := s.DB.Where("status = ? AND created_at < ?", models.StatusPending, cutoff).
		Limit(pendingSweepBatch).Find(&transactions).Error; err != nil {
		return err
	}
	for _, t := range transactions {
		kind := models.KindWalletTopup
		if t.WalletTxType == models.WalletTxDebit {
			kind = models.KindWalletWithdrawal
		}
		if _, _, err := s.CheckStatus(t.TransactionId, kind); err != nil {
			log.Printf("Pending sweep: status check failed for %s: %v", t.TransactionId, err)
		}
	}

	return nil
}

// StartScheduler initializes the cron job for PaymentService
func (s *PaymentService) StartScheduler() {
	c := cron.New()
	// Run every 10 minutes: "*/10 * * * *"
	_, err := c.AddFunc("*/10 * * * *", func() {
		log.Println("Running scheduled ReconcilePending task...")
		if err := s.ReconcilePending(); err != nil {
			log.Printf("Error in ReconcilePending: %v", err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling ReconcilePending: %v", err)
		return
	}
	c.Start()
	log.Println("PaymentService Scheduler started (Every 10 minutes)")
}
