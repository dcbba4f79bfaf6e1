package services

import (
	"payment-service/internal/models"
)

// MapGatewayStatus maps the gateway status vocabulary to the canonical enum.
// Anything unrecognized, including an absent status, is PENDING.
func MapGatewayStatus(status string) models.Status {
	switch status {
	case "completed":
		return models.StatusSuccess
	case "failed", "nocompleted", "cancelled":
		return models.StatusFailed
	case "refunded":
		return models.StatusRefunded
	}
	return models.StatusPending
}
