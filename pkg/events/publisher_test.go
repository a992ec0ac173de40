package events

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisher_Config(t *testing.T) {
	p := NewKafkaPublisher([]string{"k1:9092", "k2:9092"}, "order_events")
	t.Cleanup(func() { _ = p.Close() })

	assert.Equal(t, "order_events", p.writer.Topic)
	assert.NotNil(t, p.writer.Addr)
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
	assert.Equal(t, kafka.RequireOne, p.writer.RequiredAcks)
}

func TestKafkaPublisher_RejectsUnencodableEvent(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:1"}, "order_events")
	t.Cleanup(func() { _ = p.Close() })

	err := p.Publish(context.Background(), "k", map[string]any{"bad": func() {}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), "a", 1))
	require.NoError(t, r.Publish(context.Background(), "b", 2))

	msgs := r.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].Key)
	assert.Equal(t, 2, msgs[1].Event)

	r.Err = errors.New("down")
	require.Error(t, r.Publish(context.Background(), "c", 3))
	assert.Len(t, r.Messages(), 2)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	require.NoError(t, p.Publish(context.Background(), "k", nil))
	require.NoError(t, p.Close())
}
