package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId    string          `gorm:"column:user_id;size:255;not null;uniqueIndex" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	Currency  string          `gorm:"column:currency;size:10;not null;default:XOF" json:"currency"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}
