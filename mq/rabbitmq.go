package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrEmitterClosed = errors.New("emitter closed")

// amqpChannel is the part of *amqp.Channel the emitter publishes through.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitEmitter publishes events to the Channel topic exchange with the
// event type as routing key, so consumers can bind to e.g. "blog-*".
type RabbitEmitter struct {
	mu     sync.Mutex
	conn   io.Closer
	ch     amqpChannel
	closed bool
}

func NewRabbitEmitter(url string) (*RabbitEmitter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(Channel, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Channel, err)
	}
	return newRabbitEmitter(conn, ch), nil
}

func newRabbitEmitter(conn io.Closer, ch amqpChannel) *RabbitEmitter {
	return &RabbitEmitter{conn: conn, ch: ch}
}

func (e *RabbitEmitter) Emit(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         ev.Type,
		Timestamp:    ev.Timestamp,
		Body:         body,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEmitterClosed
	}
	if err := e.ch.PublishWithContext(ctx, Channel, ev.Type, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Close shuts the channel then the connection. Later calls are no-ops.
func (e *RabbitEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	if e.ch != nil {
		errs = append(errs, e.ch.Close())
	}
	if e.conn != nil {
		errs = append(errs, e.conn.Close())
	}
	return errors.Join(errs...)
}

var _ Emitter = (*RabbitEmitter)(nil)
