package consumers

import (
	"log"

	"payment-service/internal/services"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// CallbackProcessor replays queued webhook deliveries through the
// reconciliation engine.
type CallbackProcessor struct {
	DB         *gorm.DB
	Helper     *services.HelperService
	Reconciler *services.ReconcileService
}

func NewCallbackProcessor(db *gorm.DB, helper *services.HelperService, reconciler *services.ReconcileService) *CallbackProcessor {
	return &CallbackProcessor{
		DB:         db,
		Helper:     helper,
		Reconciler: reconciler,
	}
}

// CallbackDTO mirrors the gateway webhook payload. CustomData is kept opaque
// here; its shape varies by caller and is normalized during processing.
type CallbackDTO struct {
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Token        string          `json:"token"`
	OperatorName string          `json:"operator_name"`
	CustomData   interface{}     `json:"custom_data"`
}

// ProcessCallback decodes, validates and reconciles one webhook delivery.
// A returned error means the ledger write failed and the task should be
// retried; validation failures are accepted no-ops.
func (p *CallbackProcessor) ProcessCallback(dto CallbackDTO) (*services.ReconcileResult, error) {
	customData := services.ParseCustomData(dto.CustomData)

	if cast.ToString(customData["user_id"]) == "" {
		log.Printf("User ID missing in custom_data for token %s, cannot process transaction", dto.Token)
		p.Helper.LogCallback("Callback", "User ID missing", dto, 0, dto.Token, dto.OperatorName)
		return &services.ReconcileResult{Accepted: false, Message: "User ID missing"}, nil
	}

	kind, ok := services.KindFromCustomData(customData)
	if !ok {
		log.Printf("Unknown transaction type in callback for token %s", dto.Token)
		p.Helper.LogCallback("Callback", "Unknown transaction type", dto, 0, dto.Token, dto.OperatorName)
		return &services.ReconcileResult{Accepted: false, Message: "Unknown transaction type"}, nil
	}

	result, err := p.Reconciler.Reconcile(services.TransactionEvent{
		Token:        dto.Token,
		Kind:         kind,
		Status:       services.MapGatewayStatus(dto.Status),
		Amount:       dto.Amount,
		OperatorName: dto.OperatorName,
		CustomData:   customData,
	})
	if err != nil {
		return nil, err
	}

	if result.Applied {
		p.Helper.LogCallback("Callback", "Processed", result, 1, dto.Token, dto.OperatorName)
	}
	return result, nil
}
