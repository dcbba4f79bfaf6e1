package gateway

import (
	"os"

	"payment-service/internal/models"

	"github.com/shopspring/decimal"
)

// Client is the capability set the reconciliation core is written against.
// Two implementations exist: LigdiCashClient (real HTTP) and SimulatorClient
// (deterministic, no network). Callers must never depend on a concrete type.
type Client interface {
	CreateInvoicePayment(req InvoiceRequest) (string, error)
	CreatePayout(req PayoutRequest) (string, error)
	FetchTransaction(token string, kind models.Kind) (*Transaction, error)
}

// InvoiceRequest initiates a pay-in (wallet topup or client order payment).
type InvoiceRequest struct {
	Amount            decimal.Decimal
	CustomerPhone     string
	OTP               string
	Description       string
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomData        map[string]interface{}
}

// PayoutRequest initiates a pay-out (wallet withdrawal).
type PayoutRequest struct {
	Amount        decimal.Decimal
	CustomerPhone string
	Description   string
	CustomData    map[string]interface{}
}

// Transaction is the gateway's view of a transaction as returned by a status
// fetch. Status uses the gateway vocabulary (completed, failed, nocompleted,
// cancelled, refunded, pending, not_found); CustomData is the raw envelope in
// whatever shape the gateway round-tripped it.
type Transaction struct {
	Token        string
	Status       string
	Amount       decimal.Decimal
	OperatorName string
	CustomData   interface{}
}

// StatusNotFound is the logical status for an HTTP 404 on a fetch. It is a
// valid outcome, not an error.
const StatusNotFound = "not_found"

// Config carries gateway credentials and endpoints, built once at startup
// and passed into the client.
type Config struct {
	APIKey          string
	AuthToken       string
	BaseURL         string
	CallbackURL     string
	StoreName       string
	StoreWebsiteURL string
}

const defaultBaseURL = "https://app.ligdicash.com/pay/v01"

// ConfigFromEnv reads LigdiCash settings from the environment.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:          os.Getenv("LIGDICASH_API_KEY"),
		AuthToken:       os.Getenv("LIGDICASH_AUTH_TOKEN"),
		BaseURL:         os.Getenv("LIGDICASH_BASE_URL"),
		CallbackURL:     os.Getenv("LIGDICASH_CALLBACK_URL"),
		StoreName:       os.Getenv("STORE_NAME"),
		StoreWebsiteURL: os.Getenv("STORE_WEBSITE_URL"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "SendyGo"
	}
	if cfg.StoreWebsiteURL == "" {
		cfg.StoreWebsiteURL = "https://www.sendygo.com"
	}
	return cfg
}
