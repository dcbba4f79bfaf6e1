package models

import (
	"time"
)

type CallbackLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Request       string    `gorm:"column:request;type:longtext" json:"request"`
	Response      string    `gorm:"column:response;type:longtext" json:"response"`
	Status        int       `gorm:"column:status;default:0" json:"status"` // 0: anomaly, 1: processed
	RequestType   string    `gorm:"column:request_type;size:255" json:"request_type"`
	TransactionId string    `gorm:"column:transaction_id;size:255;index" json:"transaction_id"`
	Operator      string    `gorm:"column:operator;size:255" json:"operator"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CallbackLog) TableName() string {
	return "callback_logs"
}
