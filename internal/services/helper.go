package services

import (
	"encoding/json"

	"payment-service/internal/models"

	"gorm.io/gorm"
)

type HelperService struct {
	DB *gorm.DB
}

func NewHelperService(db *gorm.DB) *HelperService {
	return &HelperService{DB: db}
}

// LogCallback records an inbound callback or reconcile anomaly for auditing.
// Best effort: a failed audit write never blocks processing.
func (s *HelperService) LogCallback(requestType, request string, response interface{}, status int, trxId, operator string) {
	respBytes, _ := json.Marshal(response)
	entry := models.CallbackLog{
		Request:       request,
		Response:      string(respBytes),
		Status:        status,
		RequestType:   requestType,
		TransactionId: trxId,
		Operator:      operator,
	}
	s.DB.Create(&entry)
}

// FindWallet looks up a wallet by the external user id.
func (s *HelperService) FindWallet(userId string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.DB.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}
