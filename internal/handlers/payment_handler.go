package handlers

import (
	"errors"
	"net/http"

	"payment-service/internal/gateway"
	"payment-service/internal/models"
	"payment-service/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	Payment *services.PaymentService
}

func NewPaymentHandler(payment *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Payment: payment}
}

func gatewayErrorResponse(c *gin.Context, err error) {
	var gErr *gateway.GatewayError
	switch {
	case errors.Is(err, gateway.ErrNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.As(err, &gErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": gErr.Message})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func (h *PaymentHandler) Deposit(c *gin.Context) {
	var req services.DepositDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Payment.InitiateDeposit(req)
	if err != nil {
		gatewayErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Withdraw(c *gin.Context) {
	var req services.WithdrawalDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Payment.InitiateWithdrawal(req)
	if err != nil {
		gatewayErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Pay(c *gin.Context) {
	var req services.OrderPaymentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Payment.InitiateOrderPayment(req)
	if err != nil {
		gatewayErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// kindFromQuery maps the public type parameter onto a ledger kind.
func kindFromQuery(t string) (models.Kind, bool) {
	switch t {
	case "deposit":
		return models.KindWalletTopup, true
	case "withdraw":
		return models.KindWalletWithdrawal, true
	case "payment":
		return models.KindClientPayment, true
	}
	return "", false
}

// Status polls the gateway for a token and syncs the answer into the ledger.
func (h *PaymentHandler) Status(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	kind, ok := kindFromQuery(c.Query("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be 'deposit', 'withdraw' or 'payment'"})
		return
	}

	tx, _, err := h.Payment.CheckStatus(token, kind)
	if err != nil {
		gatewayErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": tx.Status})
}
