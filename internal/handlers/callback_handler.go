package handlers

import (
	"log"
	"net/http"

	"payment-service/internal/consumers"
	"payment-service/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// CallbackHandler is the webhook front door. Deliveries are queued for the
// worker; when the queue is unavailable the callback is processed inline so
// the gateway still gets a definite answer.
type CallbackHandler struct {
	Queue     *asynq.Client
	Processor *consumers.CallbackProcessor
}

func NewCallbackHandler(queue *asynq.Client, processor *consumers.CallbackProcessor) *CallbackHandler {
	return &CallbackHandler{
		Queue:     queue,
		Processor: processor,
	}
}

func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	var dto consumers.CallbackDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("LigdiCash callback received for token %s (status %s)", dto.Token, dto.Status)

	if h.Queue != nil {
		task, err := worker.NewPaymentCallbackTask(dto)
		if err == nil {
			if _, err := h.Queue.Enqueue(task, asynq.Queue("critical")); err == nil {
				c.JSON(http.StatusOK, gin.H{"message": "Callback queued"})
				return
			}
			log.Printf("Failed to enqueue callback for token %s, processing inline", dto.Token)
		}
	}

	result, err := h.Processor.ProcessCallback(dto)
	if err != nil {
		// Ledger failure: answer 5xx so the gateway redelivers.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Message})
}
