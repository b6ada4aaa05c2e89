package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	ev := NewEvent(BlogApproved, "blog", "65f0c0ffee")

	assert.Equal(t, BlogApproved, ev.Type)
	assert.Equal(t, "blog", ev.EntityType)
	assert.Equal(t, "65f0c0ffee", ev.EntityID)
	assert.False(t, ev.Timestamp.Before(before))
	assert.Equal(t, time.UTC, ev.Timestamp.Location())
}

func TestEventWireNames(t *testing.T) {
	data, err := json.Marshal(NewEvent(UserCreated, "user", "a@example.com"))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "user-created", wire["type"])
	assert.Equal(t, "user", wire["entityType"])
	assert.Equal(t, "a@example.com", wire["entityId"])
	assert.Contains(t, wire, "timestamp")
}

func TestNoopEmit(t *testing.T) {
	assert.NoError(t, Noop{}.Emit(context.Background(), NewEvent(BlogDeleted, "blog", "x")))
}
