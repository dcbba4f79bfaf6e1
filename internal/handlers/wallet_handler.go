package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"payment-service/internal/services"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	Wallet *services.WalletService
}

func NewWalletHandler(wallet *services.WalletService) *WalletHandler {
	return &WalletHandler{Wallet: wallet}
}

func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var req services.CreateWalletDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.Wallet.CreateWallet(req)
	if err != nil {
		if errors.Is(err, services.ErrWalletExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, wallet)
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userId := c.Param("user_id")
	if userId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	wallet, err := h.Wallet.GetBalance(userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":  wallet.UserId,
		"balance":  wallet.Balance,
		"currency": wallet.Currency,
	})
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userId := c.Param("user_id")
	if userId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.Wallet.GetTransactions(userId, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
