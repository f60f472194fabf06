package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	evt, err := kafka.NewOutboxEvent("req-1", "payroll", "p-1",
		events.PayrollPayslipRequestedType, events.PayrollPayslipRequestedTopic,
		events.PayrollPayslipRequestedEvent{PayrollID: "p-1", EmployeeID: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, kafka.OutboxStatusPending, evt.Status)

	var decoded events.PayrollPayslipRequestedEvent
	require.NoError(t, json.Unmarshal(evt.Payload, &decoded))
	assert.Equal(t, int64(7), decoded.EmployeeID)
}

func TestValidateOutboxEvent(t *testing.T) {
	base := kafka.OutboxEvent{ID: "1", Topic: "t", Payload: []byte("{}"), Status: kafka.OutboxStatusPending}
	assert.NoError(t, kafka.ValidateOutboxEvent(base))

	noTopic := base
	noTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(noTopic))

	badStatus := base
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}

func TestOutboxRepository_CreateUsesTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs("e-1", "req", "payroll", "p-1", "evt", "topic", []byte("{}"), kafka.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	err = repo.Create(context.Background(), kafka.OutboxEvent{
		ID: "e-1", RequestID: "req", AggregateType: "payroll", AggregateID: "p-1",
		EventType: "evt", Topic: "topic", Payload: []byte("{}"), Status: kafka.OutboxStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("e-1", "payroll", "p-1", "evt", "topic", []byte("{}"), kafka.OutboxStatusPending, 0, now)
	mock.ExpectQuery("SELECT").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10).
		WillReturnRows(rows)

	got, err := kafka.NewOutboxRepository(db).ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-1", got[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
