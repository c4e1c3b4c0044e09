package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RegistrationLog appends one line per confirmed registration to
// <dir>/registration.log.
type RegistrationLog struct {
	dir string
	mu  sync.Mutex
}

// NewRegistrationLog returns a log rooted at dir.  The directory is created
// on first write.
func NewRegistrationLog(dir string) *RegistrationLog {
	return &RegistrationLog{dir: dir}
}

// Path is the file the log writes to.
func (l *RegistrationLog) Path() string { return filepath.Join(l.dir, "registration.log") }

// Handle decodes a message body and appends its line.
func (l *RegistrationLog) Handle(body []byte) error {
	var ev RegistrationConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.RegistrationID == "" || ev.EventID == "" {
		return errors.New("message without registration or event id")
	}
	return l.Append(ev)
}

// Append writes ev as a single line.
func (l *RegistrationLog) Append(ev RegistrationConfirmedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", l.dir, err)
	}
	f, err := os.OpenFile(l.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	user := ev.UserID
	if user == "" {
		user = "-"
	}
	line := fmt.Sprintf("[%s] Registration confirmed | registration_id=%s | event_id=%s | user_id=%s | name=%q | email=%s | book=%q | cafe=%q | event_date=%s | seats=%d/%d\n",
		ev.ConfirmedAt, ev.RegistrationID, ev.EventID, user, ev.FullName, ev.Email, ev.BookTitle, ev.CafeName, ev.EventDate, ev.Registered, ev.Capacity)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// Consumer reads the registration queue and feeds a RegistrationLog.
type Consumer struct {
	URL   string
	Queue string
	Log   *RegistrationLog
	Zap   *zap.Logger

	// MaxBackoff caps the wait between reconnect attempts.
	MaxBackoff time.Duration
}

// Run connects, consumes and reconnects with exponential backoff until ctx
// is cancelled.  It returns ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	log := c.Zap
	if log == nil {
		log = zap.NewNop()
	}
	maxBackoff := c.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 30 * time.Second
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn("registration consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff = min(backoff*2, maxBackoff)
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("registration consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("registration consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info("registration consumer: listening", zap.String("queue", c.Queue), zap.String("file", c.Log.Path()))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Log.Handle(d.Body); err != nil {
				log.Error("registration consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue a poison message
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// sleep waits for d or until ctx is done, reporting whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
