package services

import (
	"errors"
	"fmt"
	"log"

	"payment-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

const defaultOperatorName = "LigdiCash"

// TransactionEvent is one observation of a gateway transaction, regardless of
// which delivery path (webhook, status poll, simulation) produced it.
type TransactionEvent struct {
	Token        string
	Kind         models.Kind
	Status       models.Status
	Amount       decimal.Decimal
	OperatorName string
	CustomData   map[string]interface{}
}

type ReconcileResult struct {
	Accepted bool   `json:"accepted"`
	Applied  bool   `json:"applied"`
	Message  string `json:"message"`
}

// ValidationError marks an event that fails a reconcile precondition. Such
// events are answered as accepted no-ops so the sender does not retry;
// malformed or partially relevant callbacks are expected traffic.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ReconcileService owns all writes to client_payments and wallet_transactions.
type ReconcileService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewReconcileService(db *gorm.DB, helper *HelperService) *ReconcileService {
	return &ReconcileService{DB: db, Helper: helper}
}

// Reconcile applies one observed gateway transaction state to the ledger.
// Idempotent per token: the first observation creates the row in the given
// status, a later observation may move a PENDING row to a terminal status
// exactly once, and every other delivery is an accepted no-op.
func (s *ReconcileService) Reconcile(event TransactionEvent) (*ReconcileResult, error) {
	if event.OperatorName == "" {
		event.OperatorName = defaultOperatorName
	}

	var (
		result *ReconcileResult
		err    error
	)

	switch event.Kind {
	case models.KindClientPayment:
		result, err = s.reconcileClientPayment(event)
	case models.KindWalletTopup, models.KindWalletWithdrawal:
		result, err = s.reconcileWalletTransaction(event)
	default:
		err = &ValidationError{Reason: fmt.Sprintf("unknown transaction kind %q", string(event.Kind))}
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		log.Printf("Reconcile rejected token %s: %s", event.Token, vErr.Reason)
		s.Helper.LogCallback("Reconcile", vErr.Reason, event.CustomData, 0, event.Token, event.OperatorName)
		return &ReconcileResult{Accepted: false, Message: vErr.Reason}, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReconcileService) reconcileClientPayment(event TransactionEvent) (*ReconcileResult, error) {
	orderId := cast.ToString(event.CustomData["order_id"])
	if orderId == "" {
		return nil, &ValidationError{Reason: "order id missing in custom data"}
	}

	record := models.ClientPayment{
		OrderId:        orderId,
		ClientId:       cast.ToString(event.CustomData["user_id"]),
		Amount:         event.Amount,
		DiscountAmount: decimalFromAny(event.CustomData["discount_amount"]),
		TransactionId:  event.Token,
		OperatorName:   event.OperatorName,
		Status:         event.Status,
	}
	if promo := cast.ToString(event.CustomData["promo_code_id"]); promo != "" {
		record.PromoCodeId = &promo
	}

	var existing models.ClientPayment
	err := s.DB.Where("transaction_id = ?", event.Token).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		createErr := s.DB.Create(&record).Error
		if createErr == nil {
			return &ReconcileResult{Accepted: true, Applied: true, Message: "payment recorded"}, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, createErr
		}
		// Lost a first-observation race; fall through to the update path.
	case err != nil:
		return nil, err
	case existing.Status.IsTerminal():
		return &ReconcileResult{Accepted: true, Applied: false, Message: "payment already processed"}, nil
	}

	return s.promotePending(&models.ClientPayment{}, event, "payment")
}

func (s *ReconcileService) reconcileWalletTransaction(event TransactionEvent) (*ReconcileResult, error) {
	userId := cast.ToString(event.CustomData["user_id"])
	if userId == "" {
		return nil, &ValidationError{Reason: "user id missing in custom data"}
	}

	wallet, err := s.Helper.FindWallet(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Reason: "wallet not found for user " + userId}
		}
		return nil, err
	}

	var txType string
	switch event.Kind {
	case models.KindWalletTopup:
		txType = models.WalletTxCredit
	case models.KindWalletWithdrawal:
		txType = models.WalletTxDebit
	default:
		return nil, &ValidationError{Reason: "invalid wallet transaction kind"}
	}

	record := models.WalletTransaction{
		WalletId:      wallet.ID,
		WalletTxType:  txType,
		Amount:        event.Amount,
		TransactionId: event.Token,
		OperatorName:  event.OperatorName,
		Status:        event.Status,
	}

	var existing models.WalletTransaction
	err = s.DB.Where("transaction_id = ?", event.Token).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		createErr := s.DB.Create(&record).Error
		if createErr == nil {
			return &ReconcileResult{Accepted: true, Applied: true, Message: "transaction recorded"}, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, createErr
		}
	case err != nil:
		return nil, err
	case existing.Status.IsTerminal():
		return &ReconcileResult{Accepted: true, Applied: false, Message: "transaction already processed"}, nil
	}

	return s.promotePending(&models.WalletTransaction{}, event, "transaction")
}

// promotePending performs the one legal transition, PENDING to terminal, as a
// single conditional update. Under concurrent deliveries the WHERE clause
// guarantees at most one effective write; the loser sees zero rows affected.
func (s *ReconcileService) promotePending(model interface{}, event TransactionEvent, label string) (*ReconcileResult, error) {
	if event.Status == models.StatusPending {
		return &ReconcileResult{Accepted: true, Applied: false, Message: label + " already recorded"}, nil
	}

	res := s.DB.Model(model).
		Where("transaction_id = ? AND status = ?", event.Token, models.StatusPending).
		Update("status", event.Status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return &ReconcileResult{Accepted: true, Applied: false, Message: label + " already processed"}, nil
	}
	return &ReconcileResult{Accepted: true, Applied: true, Message: label + " status updated"}, nil
}

func decimalFromAny(v interface{}) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cast.ToString(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}
