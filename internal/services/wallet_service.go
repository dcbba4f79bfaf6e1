package services

import (
	"errors"

	"payment-service/internal/models"
	"payment-service/pkg/common"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrWalletExists is returned when creating a wallet for a user who already
// has one.
var ErrWalletExists = errors.New("wallet already exists for user")

type WalletService struct {
	DB     *gorm.DB
	Helper *HelperService
}

func NewWalletService(db *gorm.DB, helper *HelperService) *WalletService {
	return &WalletService{DB: db, Helper: helper}
}

type CreateWalletDTO struct {
	UserId   string          `json:"user_id" binding:"required"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (s *WalletService) CreateWallet(req CreateWalletDTO) (*models.Wallet, error) {
	currency := req.Currency
	if currency == "" {
		currency = "XOF"
	}

	wallet := models.Wallet{
		UserId:   req.UserId,
		Balance:  req.Amount,
		Currency: currency,
	}

	if err := s.DB.Create(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWalletExists
		}
		return nil, err
	}
	return &wallet, nil
}

func (s *WalletService) GetBalance(userId string) (*models.Wallet, error) {
	return s.Helper.FindWallet(userId)
}

// GetTransactions lists a user's wallet transactions, newest first.
func (s *WalletService) GetTransactions(userId string, page, limit int) (*common.PaginationResult, error) {
	wallet, err := s.Helper.FindWallet(userId)
	if err != nil {
		return nil, err
	}

	page, limit = common.ClampPageLimit(page, limit)

	var total int64
	if err := s.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID).Count(&total).Error; err != nil {
		return nil, err
	}

	var transactions []models.WalletTransaction
	if err := s.DB.Where("wallet_id = ?", wallet.ID).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}

	result := common.PaginateResponse(transactions, total, page, limit, "")
	return &result, nil
}
