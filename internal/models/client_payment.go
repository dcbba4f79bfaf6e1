package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClientPayment struct {
	ID             int             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderId        string          `gorm:"column:order_id;size:255;not null;index" json:"order_id"`
	ClientId       string          `gorm:"column:client_id;size:255;not null;index" json:"client_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(20,2);default:0.00" json:"discount_amount"`
	TransactionId  string          `gorm:"column:transaction_id;size:255;not null;uniqueIndex" json:"transaction_id"`
	OperatorName   string          `gorm:"column:operator_name;size:255" json:"operator_name"`
	PromoCodeId    *string         `gorm:"column:promo_code_id;size:255" json:"promo_code_id"`
	Status         Status          `gorm:"column:status;size:20;not null;default:PENDING" json:"status"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ClientPayment) TableName() string {
	return "client_payments"
}
