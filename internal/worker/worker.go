package worker

import (
	"context"

	"kiosk-service/internal/broker"
	"kiosk-service/internal/report"
	"kiosk-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Source delivers broker messages to a handler until ctx is done
type Source interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// RelayWorker replays the kiosk event stream into a local sink, such as a
// remote operator console
type RelayWorker struct {
	source Source
	sink   report.Sink
	logger *zap.Logger
}

// NewRelayWorker creates a new relay worker
func NewRelayWorker(source Source, sink report.Sink) *RelayWorker {
	return &RelayWorker{
		source: source,
		sink:   sink,
		logger: util.GetLogger(),
	}
}

// Start starts the worker
func (w *RelayWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting relay worker")
	return w.source.StartConsuming(ctx, w.HandleMessage)
}

// HandleMessage decodes one message and forwards it to the sink. Messages
// that cannot be decoded are logged and skipped so they are still committed.
func (w *RelayWorker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	event, err := broker.DecodeEvent(msg.Value)
	if err != nil {
		w.logger.Warn("Skipping undecodable message",
			zap.String("key", string(msg.Key)),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return nil
	}

	return w.sink.Emit(ctx, event)
}

// Stop stops the worker
func (w *RelayWorker) Stop() error {
	w.logger.Info("Stopping relay worker")
	return w.source.Close()
}
