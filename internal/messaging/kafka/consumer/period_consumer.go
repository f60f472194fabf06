package consumer

import (
	"context"
	"encoding/json"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePeriodProcessed drops cached summaries of periods processed by
// another instance.
func ConsumePeriodProcessed(
	ctx context.Context,
	reader MessageReader,
	cache payroll.SummaryCache,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.period_processed")
	log.Info("period processed consumer started")

	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) outcome {
		var event events.PayrollPeriodProcessedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode period processed event failed", zap.Error(err))
			return commit
		}

		if err := cache.Invalidate(ctx, event.PeriodID); err != nil {
			log.Error("invalidate payroll summary failed", zap.String("period_id", event.PeriodID), zap.Error(err))
			return retry
		}

		log.Info("payroll summary invalidated",
			zap.String("period_id", event.PeriodID),
			zap.Int("processed", event.Processed),
			zap.Int("failed", event.Failed),
		)
		return commit
	})
}
