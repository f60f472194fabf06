package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves queued messages and cancels ctx once they run out.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func message(t *testing.T, offset int64, v any) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return kafkago.Message{Offset: offset, Value: body, Headers: []kafkago.Header{{Key: "request_id", Value: []byte("req-1")}}}
}

type fakePayslips struct {
	payslip.Service
	generateFn func(ctx context.Context, payrollID string, actor contextutil.Actor) (payslip.GenerateResult, error)
}

func (f *fakePayslips) Generate(ctx context.Context, payrollID string, actor contextutil.Actor) (payslip.GenerateResult, error) {
	return f.generateFn(ctx, payrollID, actor)
}

func TestConsumePayslipRequested(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
		message(t, 1, events.PayrollPayslipRequestedEvent{PayrollID: "ok", RequestedBy: "officer-1"}),
		message(t, 2, events.PayrollPayslipRequestedEvent{PayrollID: "absent"}),
		message(t, 3, events.PayrollPayslipRequestedEvent{PayrollID: "db-down"}),
		{Offset: 4, Value: []byte("{not json")},
	}}

	var actors []string
	var requestIDs []string
	svc := &fakePayslips{generateFn: func(ctx context.Context, payrollID string, actor contextutil.Actor) (payslip.GenerateResult, error) {
		actors = append(actors, actor.UserID)
		requestIDs = append(requestIDs, contextutil.GetRequestID(ctx))
		switch payrollID {
		case "absent":
			return payslip.GenerateResult{}, paysliperrors.ErrPayrollNotPayable
		case "db-down":
			return payslip.GenerateResult{}, errors.New("connection refused")
		}
		return payslip.GenerateResult{Payslip: payslip.PayslipResponse{PayslipNumber: "PS202501-0001-000001"}}, nil
	}}

	ConsumePayslipRequested(ctx, reader, svc, zap.NewNop())

	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
	assert.Equal(t, "officer-1", actors[0])
	assert.Equal(t, "req-1", requestIDs[0])
}

type fakeCache struct {
	payroll.SummaryCache
	invalidated []string
	err         error
}

func (c *fakeCache) Invalidate(ctx context.Context, periodID string) error {
	c.invalidated = append(c.invalidated, periodID)
	return c.err
}

func TestConsumePeriodProcessed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
		message(t, 7, events.PayrollPeriodProcessedEvent{PeriodID: "p-1", Processed: 3}),
	}}
	cache := &fakeCache{}

	ConsumePeriodProcessed(ctx, reader, cache, zap.NewNop())

	assert.Equal(t, []string{"p-1"}, cache.invalidated)
	assert.Equal(t, []int64{7}, reader.committed)

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	reader = &fakeReader{cancel: cancel2, msgs: []kafkago.Message{
		message(t, 8, events.PayrollPeriodProcessedEvent{PeriodID: "p-2"}),
	}}
	cache = &fakeCache{err: errors.New("redis down")}

	ConsumePeriodProcessed(ctx2, reader, cache, zap.NewNop())
	assert.Empty(t, reader.committed)
}
