package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers registration confirmations.  Callers treat failures as
// best effort; the registration is already stored.
type Publisher interface {
	PublishRegistrationConfirmed(ctx context.Context, ev RegistrationConfirmedEvent) error
	Close() error
}

// NopPublisher drops every message.  It is used when the queue is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishRegistrationConfirmed(context.Context, RegistrationConfirmedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

// AMQPPublisher publishes persistent JSON messages to a durable queue on the
// default exchange.  The connection is opened on first use and reopened
// after the broker drops it.
type AMQPPublisher struct {
	url   string
	queue string

	// dialTimeout caps the TCP connect and AMQP handshake of one dial.
	dialTimeout time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for queue at url.  No connection is
// made until the first publish.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, dialTimeout: 5 * time.Second}
}

// channel returns the open channel or dials a new one.  The dial is bounded
// by dialTimeout and by the deadline of ctx, whichever is sooner.
func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	timeout := p.dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("dial broker: %w", context.DeadlineExceeded)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", p.queue, err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

// PublishRegistrationConfirmed marshals ev and publishes it with the queue
// name as routing key.
func (p *AMQPPublisher) PublishRegistrationConfirmed(ctx context.Context, ev RegistrationConfirmedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Publishers queued behind a slow dial give up once their own deadline
	// has passed.
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.RegistrationID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.closeLocked()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}
