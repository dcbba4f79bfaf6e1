package gateway

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"payment-service/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Simulated token prefixes. The remainder of the token is the base64-encoded
// event itself, so a status fetch can replay it without any network call.
const (
	simPaymentPrefix    = "SIM_PAY_"
	simDepositPrefix    = "SIM_DEP_"
	simWithdrawalPrefix = "SIM_WIT_"
)

const simOperatorName = "LigdiCash Simulation"

// SimulatorClient satisfies the gateway contract without leaving the process.
// Used in non-production deployments; a status fetch always reports the
// transaction as completed.
type SimulatorClient struct {
	DB *gorm.DB
}

func NewSimulatorClient(db *gorm.DB) *SimulatorClient {
	return &SimulatorClient{DB: db}
}

type simTokenPayload struct {
	Amount     decimal.Decimal        `json:"amount"`
	CustomData map[string]interface{} `json:"customData"`
	Type       string                 `json:"type"`
}

func encodeSimToken(prefix string, payload simTokenPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return prefix + base64.StdEncoding.EncodeToString(data), nil
}

func (c *SimulatorClient) CreateInvoicePayment(req InvoiceRequest) (string, error) {
	prefix := simDepositPrefix
	txType := "deposit"
	if t, _ := req.CustomData["type"].(string); t == "payment" {
		prefix = simPaymentPrefix
		txType = "payment"
	}
	return encodeSimToken(prefix, simTokenPayload{
		Amount:     req.Amount,
		CustomData: req.CustomData,
		Type:       txType,
	})
}

func (c *SimulatorClient) CreatePayout(req PayoutRequest) (string, error) {
	userId, _ := req.CustomData["user_id"].(string)
	if userId == "" {
		return "", errors.New("user id is required in custom data for simulation")
	}

	// Refuse to issue a token when the wallet cannot cover the withdrawal.
	var wallet models.Wallet
	if err := c.DB.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		return "", errors.New("wallet not found for user")
	}
	if wallet.Balance.LessThan(req.Amount) {
		return "", errors.New("insufficient balance")
	}

	return encodeSimToken(simWithdrawalPrefix, simTokenPayload{
		Amount:     req.Amount,
		CustomData: req.CustomData,
		Type:       "withdraw",
	})
}

// FetchTransaction decodes the event carried inside the token and reports it
// as completed.
func (c *SimulatorClient) FetchTransaction(token string, kind models.Kind) (*Transaction, error) {
	encoded := token
	for _, prefix := range []string{simPaymentPrefix, simDepositPrefix, simWithdrawalPrefix} {
		if strings.HasPrefix(token, prefix) {
			encoded = strings.TrimPrefix(token, prefix)
			break
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid simulated token: %w", err)
	}

	var payload simTokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid simulated token: %w", err)
	}

	// Re-wrap the custom data so the caller sees the same opaque envelope a
	// real fetch would return.
	customData := map[string]interface{}{}
	for k, v := range payload.CustomData {
		customData[k] = v
	}

	return &Transaction{
		Token:        token,
		Status:       "completed",
		Amount:       payload.Amount,
		OperatorName: simOperatorName,
		CustomData:   customData,
	}, nil
}
