package consumers

import (
	"testing"

	"payment-service/internal/models"
	"payment-service/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProcessor(t *testing.T) (*CallbackProcessor, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Wallet{},
		&models.ClientPayment{},
		&models.WalletTransaction{},
		&models.CallbackLog{},
	))

	helper := services.NewHelperService(db)
	return NewCallbackProcessor(db, helper, services.NewReconcileService(db, helper)), db
}

func TestProcessCallbackAppliesTopup(t *testing.T) {
	processor, db := setupProcessor(t)
	require.NoError(t, db.Create(&models.Wallet{UserId: "u-1", Currency: "XOF"}).Error)

	result, err := processor.ProcessCallback(CallbackDTO{
		Status:       "completed",
		Amount:       decimal.NewFromInt(2500),
		Token:        "cb-tok-1",
		OperatorName: "Moov Money",
		CustomData: map[string]interface{}{
			"type":    "wallet_topup",
			"user_id": "u-1",
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.True(t, result.Applied)

	var row models.WalletTransaction
	require.NoError(t, db.Where("transaction_id = ?", "cb-tok-1").First(&row).Error)
	assert.Equal(t, models.StatusSuccess, row.Status)
	assert.Equal(t, "Moov Money", row.OperatorName)

	// Applied callbacks leave a processed audit entry.
	var logs int64
	db.Model(&models.CallbackLog{}).Where("status = ?", 1).Count(&logs)
	assert.Equal(t, int64(1), logs)
}

func TestProcessCallbackDecodesPairArrayEnvelope(t *testing.T) {
	processor, db := setupProcessor(t)
	require.NoError(t, db.Create(&models.Wallet{UserId: "u-2", Currency: "XOF"}).Error)

	result, err := processor.ProcessCallback(CallbackDTO{
		Status: "completed",
		Amount: decimal.NewFromInt(800),
		Token:  "cb-tok-2",
		CustomData: []interface{}{
			map[string]interface{}{"keyof_customdata": "type", "valueof_customdata": "wallet_topup"},
			map[string]interface{}{"keyof_customdata": "user_id", "valueof_customdata": "u-2"},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Applied)
}

func TestProcessCallbackMissingUserId(t *testing.T) {
	processor, db := setupProcessor(t)

	result, err := processor.ProcessCallback(CallbackDTO{
		Status:     "completed",
		Amount:     decimal.NewFromInt(100),
		Token:      "cb-tok-3",
		CustomData: map[string]interface{}{"type": "wallet_topup"},
	})
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, "User ID missing", result.Message)

	var logs int64
	db.Model(&models.CallbackLog{}).Where("status = ?", 0).Count(&logs)
	assert.Equal(t, int64(1), logs)
}

func TestProcessCallbackUnknownType(t *testing.T) {
	processor, _ := setupProcessor(t)

	result, err := processor.ProcessCallback(CallbackDTO{
		Status:     "completed",
		Amount:     decimal.NewFromInt(100),
		Token:      "cb-tok-4",
		CustomData: map[string]interface{}{"user_id": "u-4", "type": "mystery"},
	})
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, "Unknown transaction type", result.Message)
}

func TestProcessCallbackRedeliveryIsNoOp(t *testing.T) {
	processor, db := setupProcessor(t)
	require.NoError(t, db.Create(&models.Wallet{UserId: "u-5", Currency: "XOF"}).Error)

	dto := CallbackDTO{
		Status: "completed",
		Amount: decimal.NewFromInt(600),
		Token:  "cb-tok-5",
		CustomData: map[string]interface{}{
			"type":    "wallet_topup",
			"user_id": "u-5",
		},
	}

	first, err := processor.ProcessCallback(dto)
	require.NoError(t, err)
	assert.True(t, first.Applied)

	second, err := processor.ProcessCallback(dto)
	require.NoError(t, err)
	assert.True(t, second.Accepted)
	assert.False(t, second.Applied)

	var count int64
	db.Model(&models.WalletTransaction{}).Where("transaction_id = ?", "cb-tok-5").Count(&count)
	assert.Equal(t, int64(1), count)
}
