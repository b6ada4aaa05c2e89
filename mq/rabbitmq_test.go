package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent       []sentMessage
	publishErr error
	closes     int
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.sent = append(c.sent, sentMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closes++
	return nil
}

type fakeConn struct {
	closes int
	err    error
}

func (c *fakeConn) Close() error {
	c.closes++
	return c.err
}

func TestRabbitEmitRoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	e := newRabbitEmitter(&fakeConn{}, ch)

	ev := NewEvent(BlogApproved, "blog", "665f1c2e9b1e8a0012345678")
	require.NoError(t, e.Emit(context.Background(), ev))

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, Channel, sent.exchange)
	assert.Equal(t, BlogApproved, sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.Equal(t, BlogApproved, sent.msg.Type)
	assert.NotEmpty(t, sent.msg.MessageId)

	var got Event
	require.NoError(t, json.Unmarshal(sent.msg.Body, &got))
	assert.Equal(t, ev.EntityID, got.EntityID)
}

func TestRabbitEmitPublishError(t *testing.T) {
	boom := errors.New("channel/connection is not open")
	e := newRabbitEmitter(&fakeConn{}, &fakeChannel{publishErr: boom})

	err := e.Emit(context.Background(), NewEvent(BlogDeleted, "blog", "x"))
	assert.ErrorIs(t, err, boom)
}

func TestRabbitCloseIsIdempotent(t *testing.T) {
	ch := &fakeChannel{}
	conn := &fakeConn{}
	e := newRabbitEmitter(conn, ch)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, 1, ch.closes)
	assert.Equal(t, 1, conn.closes)

	err := e.Emit(context.Background(), NewEvent(UserCreated, "user", "a@example.com"))
	assert.ErrorIs(t, err, ErrEmitterClosed)
	assert.Empty(t, ch.sent)
}

func TestRabbitCloseReportsConnectionError(t *testing.T) {
	broken := errors.New("connection reset")
	e := newRabbitEmitter(&fakeConn{err: broken}, &fakeChannel{})
	assert.ErrorIs(t, e.Close(), broken)
}
