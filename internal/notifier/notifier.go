package notifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers a text message to the operator.
type Notifier interface {
	Send(text string) error
	Name() string
}

// retryBase is the first backoff delay; it doubles on every attempt.
var retryBase = time.Second

// SendWithRetry sends a message with exponential backoff retry.
func SendWithRetry(ctx context.Context, n Notifier, text string, maxRetries int, log *zap.Logger) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := n.Send(text); err != nil {
			lastErr = err
			backoff := retryBase << uint(i)
			log.Warn("send failed, retrying",
				zap.String("notifier", n.Name()),
				zap.Int("attempt", i+1),
				zap.Int("attempts", maxRetries+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// LogNotifier writes messages to the log instead of a chat. It is used when no
// bot token is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) Send(text string) error {
	l.log.Info("alert", zap.String("text", text))
	return nil
}
