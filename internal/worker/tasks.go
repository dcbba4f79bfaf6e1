package worker

import (
	"encoding/json"

	"payment-service/internal/consumers"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypePaymentCallback = "payment:callback"
)

// NewPaymentCallbackTask wraps a webhook delivery for asynchronous
// reconciliation.
func NewPaymentCallbackTask(payload consumers.CallbackDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePaymentCallback, data), nil
}
