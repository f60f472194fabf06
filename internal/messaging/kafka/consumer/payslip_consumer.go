package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payroll/internal/events"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipRequested generates the payslip of every requested payroll
// record. Client errors are committed and dropped; anything else is retried.
func ConsumePayslipRequested(
	ctx context.Context,
	reader MessageReader,
	payslipService payslip.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_requested")
	log.Info("payslip consumer started")

	run(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) outcome {
		var event events.PayrollPayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip requested event failed", zap.Error(err))
			return commit
		}

		ctx = contextutil.WithRequestID(ctx, requestID(msg))
		actor := contextutil.Actor{UserID: event.RequestedBy}

		res, err := payslipService.Generate(ctx, event.PayrollID, actor)
		if err != nil {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.HTTPStatus < 500 {
				log.Warn("payslip request dropped",
					zap.String("payroll_id", event.PayrollID),
					zap.String("code", appErr.Code),
				)
				return commit
			}
			log.Error("generate payslip failed", zap.String("payroll_id", event.PayrollID), zap.Error(err))
			return retry
		}

		log.Info("payslip generated from event",
			zap.String("payroll_id", event.PayrollID),
			zap.String("payslip_number", res.Payslip.PayslipNumber),
			zap.Bool("already_exists", res.AlreadyExists),
		)
		return commit
	})
}
