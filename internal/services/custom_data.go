package services

import (
	"payment-service/internal/models"

	"github.com/spf13/cast"
)

// ParseCustomData normalizes the gateway's custom_data envelope into a flat
// map. The gateway round-trips the envelope in several shapes depending on
// the endpoint: a plain object, an array of {keyof_customdata,
// valueof_customdata} pairs, or an array nesting that pair under "item".
// Unknown shapes degrade to a partial or empty map; this never fails.
func ParseCustomData(customData interface{}) map[string]interface{} {
	parsed := map[string]interface{}{}

	switch v := customData.(type) {
	case []interface{}:
		for _, raw := range v {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			if key := cast.ToString(entry["keyof_customdata"]); key != "" && entry["valueof_customdata"] != nil {
				parsed[key] = entry["valueof_customdata"]
				continue
			}
			if nested, ok := entry["item"].(map[string]interface{}); ok {
				if key := cast.ToString(nested["keyof_customdata"]); key != "" && nested["valueof_customdata"] != nil {
					parsed[key] = nested["valueof_customdata"]
					continue
				}
			}
			// Plain key-value object inside the array: merge as-is.
			for k, val := range entry {
				parsed[k] = val
			}
		}
	case map[string]interface{}:
		return v
	}

	return parsed
}

// KindFromCustomData resolves the transaction kind from the envelope's type
// field. The second return is false for absent or unknown types.
func KindFromCustomData(data map[string]interface{}) (models.Kind, bool) {
	switch cast.ToString(data["type"]) {
	case "payment":
		return models.KindClientPayment, true
	case "wallet_topup":
		return models.KindWalletTopup, true
	case "wallet_withdrawal":
		return models.KindWalletWithdrawal, true
	}
	return "", false
}
