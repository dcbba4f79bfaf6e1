package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"payment-service/internal/consumers"

	"github.com/hibiken/asynq"
)

type Worker struct {
	Processor *consumers.CallbackProcessor
}

func NewWorker(processor *consumers.CallbackProcessor) *Worker {
	return &Worker{
		Processor: processor,
	}
}

func (w *Worker) HandlePaymentCallback(ctx context.Context, t *asynq.Task) error {
	var p consumers.CallbackDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	result, err := w.Processor.ProcessCallback(p)
	if err != nil {
		// Ledger write failed; let asynq redeliver.
		return err
	}
	log.Printf("Callback for token %s processed: accepted=%v applied=%v", p.Token, result.Accepted, result.Applied)
	return nil
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.CallbackProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			// Specify how many concurrent workers to use
			Concurrency: 10,
			// Optionally specify multiple queues with different priority.
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypePaymentCallback, worker.HandlePaymentCallback)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
