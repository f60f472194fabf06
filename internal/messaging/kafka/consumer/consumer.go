package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// outcome tells the loop what to do with a handled message.
type outcome int

const (
	commit outcome = iota
	retry
)

type handlerFunc func(ctx context.Context, msg kafkago.Message) outcome

// run fetches messages until ctx is cancelled. Messages handled with retry
// are left uncommitted so the group redelivers them.
func run(ctx context.Context, reader MessageReader, log *zap.Logger, handle handlerFunc) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if handle(ctx, msg) == retry {
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func requestID(msg kafkago.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "request_id" {
			return string(h.Value)
		}
	}
	return ""
}
