package eventbus

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/nbtview/internal/logging"
)

// collector собирает доставленные события
type collector struct {
	mu     sync.Mutex
	events []*Envelope
}

func (c *collector) handle(_ context.Context, ev *Envelope) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.EventType)
	}
	return out
}

func chunkEnvelope(t *testing.T, eventType string, x, z int) *Envelope {
	t.Helper()
	env, err := NewChunkEnvelope("test", eventType, ChunkEvent{Region: "r", X: x, Z: z})
	require.NoError(t, err)
	return env
}

func TestChunkEnvelope_RoundTrip(t *testing.T) {
	env, err := NewChunkEnvelope("storage", ChunkSaved, ChunkEvent{Region: "overworld", X: -3, Z: 7, Size: 42})
	require.NoError(t, err)

	assert.Len(t, env.ID, 36, "UUID в текстовом виде")
	assert.Equal(t, ChunkSaved, env.EventType)
	assert.Equal(t, "overworld", env.Metadata["region"])
	assert.False(t, env.Timestamp.IsZero())

	ev, err := DecodeChunkEvent(env)
	require.NoError(t, err)
	assert.Equal(t, ChunkEvent{Region: "overworld", X: -3, Z: 7, Size: 42}, ev)

	other := NewEnvelope("storage", ChunkDeleted, nil)
	assert.NotEqual(t, env.ID, other.ID)

	_, err = DecodeChunkEvent(&Envelope{EventType: ChunkSaved, Payload: []byte("{")})
	assert.Error(t, err)
}

func TestMemoryBus_DeliversInOrderWithFilter(t *testing.T) {
	bus := NewMemoryBus(16)

	var all, saved collector
	_, err := bus.Subscribe(context.Background(), Filter{}, all.handle)
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{ChunkSaved}}, saved.handle)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, chunkEnvelope(t, ChunkSaved, 0, 0)))
	require.NoError(t, bus.Publish(ctx, chunkEnvelope(t, ChunkDeleted, 0, 0)))
	require.NoError(t, bus.Publish(ctx, chunkEnvelope(t, ChunkSaved, 1, 0)))

	// Close дожидается доставки
	require.NoError(t, bus.Close())

	assert.Equal(t, []string{ChunkSaved, ChunkDeleted, ChunkSaved}, all.types())
	assert.Equal(t, []string{ChunkSaved, ChunkSaved}, saved.types())

	stats := bus.Metrics()
	assert.Equal(t, uint64(3), stats.Published)
	assert.Equal(t, uint64(5), stats.Consumed)
	assert.Equal(t, 0, stats.InFlight)
}

func TestMemoryBus_SourceFilter(t *testing.T) {
	bus := NewMemoryBus(4)

	var got collector
	_, err := bus.Subscribe(context.Background(), Filter{Sources: []string{"storage"}}, got.handle)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("storage", ChunkSaved, nil)))
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("cli", ChunkSaved, nil)))
	require.NoError(t, bus.Close())

	assert.Len(t, got.types(), 1)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)

	var got collector
	sub, err := bus.Subscribe(context.Background(), Filter{}, got.handle)
	require.NoError(t, err)
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("t", ChunkSaved, nil)))
	require.NoError(t, bus.Close())
	assert.Empty(t, got.types())
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope("t", ChunkSaved, nil)))
	<-started // первое событие забрано диспетчером и висит в обработчике

	require.NoError(t, bus.Publish(ctx, NewEnvelope("t", ChunkSaved, nil))) // занимает буфер
	require.NoError(t, bus.Publish(ctx, NewEnvelope("t", ChunkSaved, nil))) // отброшено

	high := NewEnvelope("t", ChunkDeleted, nil)
	high.Priority = 9
	timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Publish(timeout, high), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Close())

	stats := bus.Metrics()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(1), stats.Dropped)
}

func TestMemoryBus_Closed(t *testing.T) {
	bus := NewMemoryBus(1)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(context.Background(), NewEnvelope("t", ChunkSaved, nil)), ErrClosed)
	_, err := bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMetricsExporter_Collect(t *testing.T) {
	bus := NewMemoryBus(8)
	reg := prometheus.NewRegistry()
	exporter := NewMetricsExporter(bus, reg)

	var got collector
	_, err := bus.Subscribe(context.Background(), Filter{}, got.handle)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("t", ChunkSaved, nil)))
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("t", ChunkSaved, nil)))
	require.NoError(t, bus.Close())

	exporter.Collect()
	exporter.Collect()

	assert.Equal(t, 2.0, testutil.ToFloat64(exporter.published))
	assert.Equal(t, 2.0, testutil.ToFloat64(exporter.consumed))
	assert.Equal(t, 0.0, testutil.ToFloat64(exporter.dropped))

	exporter.Start(time.Millisecond)
	exporter.Stop()
}

func TestLoggingListener(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewConsoleLogger("eventbus", &buf)
	logger.SetLevels(logging.DEBUG, logging.ERROR)

	bus := NewMemoryBus(4)
	sub, err := StartLoggingListener(context.Background(), bus, logger)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	env := NewEnvelope("storage", ChunkSaved, []byte("abc"))
	require.NoError(t, bus.Publish(context.Background(), env))
	require.NoError(t, bus.Close())

	assert.Contains(t, buf.String(), env.ID)
	assert.Contains(t, buf.String(), "size=3B")
}

func TestJetStreamBus_PublishSubscribe(t *testing.T) {
	url := os.Getenv("NBTVIEW_NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}
	bus, err := NewJetStreamBus(url, "NBTVIEW_TEST", time.Minute)
	if err != nil {
		t.Skipf("NATS not available, skipping test: %v", err)
		return
	}
	defer bus.Close()

	received := make(chan ChunkEvent, 1)
	sub, err := bus.Subscribe(context.Background(), Filter{Types: []string{ChunkSaved}}, func(_ context.Context, ev *Envelope) {
		if payload, err := DecodeChunkEvent(ev); err == nil {
			received <- payload
		}
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	env, err := NewChunkEnvelope("test", ChunkSaved, ChunkEvent{Region: "js", X: 4, Z: -4})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), env))

	select {
	case ev := <-received:
		assert.Equal(t, ChunkEvent{Region: "js", X: 4, Z: -4}, ev)
	case <-time.After(5 * time.Second):
		t.Fatal("событие не доставлено")
	}
	assert.Equal(t, uint64(1), bus.Metrics().Published)
}
