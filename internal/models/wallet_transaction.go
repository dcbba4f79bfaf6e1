package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletTransaction struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletId      int             `gorm:"column:wallet_id;not null;index" json:"wallet_id"`
	WalletTxType  string          `gorm:"column:wallet_tx_type;size:10;not null" json:"wallet_tx_type"` // CREDIT or DEBIT
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	TransactionId string          `gorm:"column:transaction_id;size:255;not null;uniqueIndex" json:"transaction_id"`
	OperatorName  string          `gorm:"column:operator_name;size:255" json:"operator_name"`
	Status        Status          `gorm:"column:status;size:20;not null;default:PENDING" json:"status"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
