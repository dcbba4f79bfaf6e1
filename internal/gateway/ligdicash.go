package gateway

import (
	"encoding/json"
	"fmt"
	"log"

	"payment-service/internal/models"
	"payment-service/pkg/common"

	"github.com/shopspring/decimal"
)

// LigdiCashClient talks to the LigdiCash "straight" API. Pay-ins go through
// the checkout-invoice endpoint family, pay-outs through the payout family.
type LigdiCashClient struct {
	cfg Config
}

func NewLigdiCashClient(cfg Config) *LigdiCashClient {
	return &LigdiCashClient{cfg: cfg}
}

func (c *LigdiCashClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.AuthToken,
		"Apikey":        c.cfg.APIKey,
		"Accept":        "application/json",
	}
}

func (c *LigdiCashClient) checkConfigured() error {
	if c.cfg.APIKey == "" || c.cfg.AuthToken == "" {
		return ErrNotConfigured
	}
	return nil
}

// amountNumber renders an exact decimal as a bare JSON number on the wire.
func amountNumber(amount decimal.Decimal) json.Number {
	return json.Number(amount.String())
}

type tokenResponse struct {
	Token string `json:"token"`
}

// CreateInvoicePayment posts a checkout invoice and returns the gateway token.
func (c *LigdiCashClient) CreateInvoicePayment(req InvoiceRequest) (string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", err
	}

	description := req.Description
	if description == "" {
		description = "Recharge portefeuille SendyGo"
	}

	payload := map[string]interface{}{
		"commande": map[string]interface{}{
			"invoice": map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"name":        "Recharge Portefeuille",
						"description": "Crédit de compte chauffeur",
						"quantity":    1,
						"unit_price":  amountNumber(req.Amount),
						"total_price": amountNumber(req.Amount),
					},
				},
				"total_amount":       amountNumber(req.Amount),
				"devise":             "XOF",
				"description":        description,
				"customer":           req.CustomerPhone,
				"customer_firstname": req.CustomerFirstName,
				"customer_lastname":  req.CustomerLastName,
				"customer_email":     req.CustomerEmail,
				"external_id":        "",
				"otp":                req.OTP,
			},
			"store": map[string]interface{}{
				"name":        c.cfg.StoreName,
				"website_url": c.cfg.StoreWebsiteURL,
			},
			"actions": map[string]interface{}{
				"cancel_url":   "",
				"return_url":   "",
				"callback_url": c.cfg.CallbackURL,
			},
			"custom_data": req.CustomData,
		},
	}

	resp, err := common.Post(c.cfg.BaseURL+"/straight/checkout-invoice/create", payload, c.headers())
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		log.Printf("LigdiCash payin error response: %s", resp.Body)
		return "", newGatewayError(resp.StatusCode, resp.Body)
	}

	var result tokenResponse
	if err := resp.JSON(&result); err != nil {
		return "", fmt.Errorf("decoding payin response: %w", err)
	}
	return result.Token, nil
}

// CreatePayout posts a merchant payout and returns the gateway token.
func (c *LigdiCashClient) CreatePayout(req PayoutRequest) (string, error) {
	if err := c.checkConfigured(); err != nil {
		return "", err
	}

	description := req.Description
	if description == "" {
		description = "Retrait depuis portefeuille SendyGo"
	}

	payload := map[string]interface{}{
		"commande": map[string]interface{}{
			"amount":       amountNumber(req.Amount),
			"description":  description,
			"customer":     req.CustomerPhone,
			"custom_data":  req.CustomData,
			"callback_url": c.cfg.CallbackURL,
		},
	}

	resp, err := common.Post(c.cfg.BaseURL+"/straight/payout", payload, c.headers())
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		log.Printf("LigdiCash payout error response: %s", resp.Body)
		return "", newGatewayError(resp.StatusCode, resp.Body)
	}

	var result tokenResponse
	if err := resp.JSON(&result); err != nil {
		return "", fmt.Errorf("decoding payout response: %w", err)
	}
	return result.Token, nil
}

type confirmResponse struct {
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	OperatorName string          `json:"operator_name"`
	CustomData   interface{}     `json:"custom_data"`
}

// FetchTransaction polls the gateway for the current state of a transaction.
// A 404 maps to the logical not_found status, not an error.
func (c *LigdiCashClient) FetchTransaction(token string, kind models.Kind) (*Transaction, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	var url string
	switch kind {
	case models.KindWalletWithdrawal:
		url = fmt.Sprintf("%s/straight/payout/confirm/?payoutToken=%s", c.cfg.BaseURL, token)
	default:
		// Pay-ins (client payments and wallet topups) use the invoice family.
		url = fmt.Sprintf("%s/redirect/checkout-invoice/confirm/?invoiceToken=%s", c.cfg.BaseURL, token)
	}

	resp, err := common.Get(url, c.headers())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 404 {
		return &Transaction{Token: token, Status: StatusNotFound}, nil
	}
	if !resp.OK() {
		log.Printf("LigdiCash status check error response: %s", resp.Body)
		return nil, newGatewayError(resp.StatusCode, resp.Body)
	}

	var result confirmResponse
	if err := resp.JSON(&result); err != nil {
		return nil, fmt.Errorf("decoding status response: %w", err)
	}

	return &Transaction{
		Token:        token,
		Status:       result.Status,
		Amount:       result.Amount,
		OperatorName: result.OperatorName,
		CustomData:   result.CustomData,
	}, nil
}
