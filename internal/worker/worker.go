package worker

import (
	"context"
	"log"

	"limiteds-market/internal/broker"
	"limiteds-market/internal/service"
)

// ReceiptWorker consumes settlement events and appends sale receipts
type ReceiptWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewReceiptWorker creates a new receipt worker
func NewReceiptWorker(consumer *broker.Consumer, recorder *service.ReceiptRecorder) *ReceiptWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnItemSold(recorder.HandleItemSold)

	return &ReceiptWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *ReceiptWorker) Start(ctx context.Context) error {
	log.Println("Starting receipt worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReceiptWorker) Stop() error {
	log.Println("Stopping receipt worker...")
	return w.consumer.Close()
}
