package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go-payroll/internal/config"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunConsumer handles payslip requests and period notifications until
// interrupted.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required")
	}

	infra, err := Connect(cfg, true)
	if err != nil {
		return err
	}
	defer infra.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// payslips generated here never queue further events
	modules, err := NewModules(ctx, cfg, infra.DB, infra.GormDB, infra.Redis, nil, logger)
	if err != nil {
		return err
	}

	payslipReader := newReader(cfg, events.PayrollPayslipRequestedTopic, "payslip")
	defer payslipReader.Close()
	periodReader := newReader(cfg, events.PayrollPeriodProcessedTopic, "summary")
	defer periodReader.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.ConsumePayslipRequested(gctx, payslipReader, modules.Payslips, logger)
		return nil
	})
	g.Go(func() error {
		consumer.ConsumePeriodProcessed(gctx, periodReader, modules.SummaryCache, logger)
		return nil
	})

	err = g.Wait()
	log.Info("consumer shutting down")
	return err
}

// newReader gives each handler its own consumer group so offsets do not mix.
func newReader(cfg *config.Config, topic, handler string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          topic,
		GroupID:        cfg.Kafka.GroupID + "-" + handler,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}
