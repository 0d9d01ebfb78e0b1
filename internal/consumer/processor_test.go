package consumer

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
	"github.com/AERESAL/VolunteerHub-Backend/internal/events"
)

func framed(schemaID int, payload []byte) []byte {
	value := make([]byte, 5+len(payload))
	binary.BigEndian.PutUint32(value[1:5], uint32(schemaID))
	copy(value[5:], payload)
	return value
}

func record(offset int64, eventType, owner string, value []byte) kafka.Message {
	return kafka.Message{
		Topic:     events.TopicActivity,
		Partition: 0,
		Offset:    offset,
		Time:      time.Now().UTC(),
		Value:     value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "owner", Value: []byte(owner)},
			{Key: "schema_subject", Value: []byte(events.TopicActivity + "-" + eventType)},
		},
	}
}

func testLogger(t *testing.T) Option {
	return WithLogger(zerolog.New(zerolog.NewTestWriter(t)))
}

func TestProcessorCommitsOnSuccess(t *testing.T) {
	payload := []byte(`{"activity_id":"abc","owner":"alice"}`)
	reader := &stubReader{messages: []kafka.Message{record(10, events.TypeActivityCreated, "alice", framed(42, payload))}}
	handler := &stubHandler{}

	before := testutil.ToFloat64(processedCounter.WithLabelValues(events.TopicActivity, events.TypeActivityCreated))

	err := NewProcessor(reader, handler, testLogger(t)).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 1, reader.commitCalls)
	require.Equal(t, events.TypeActivityCreated, handler.last.EventType)
	require.Equal(t, "alice", handler.last.Owner)
	require.Equal(t, 42, handler.last.SchemaID)
	require.JSONEq(t, string(payload), string(handler.last.Payload))
	require.InDelta(t, before+1, testutil.ToFloat64(processedCounter.WithLabelValues(events.TopicActivity, events.TypeActivityCreated)), 0.0001)
}

func TestProcessorSkipsCommitOnHandlerError(t *testing.T) {
	reader := &stubReader{messages: []kafka.Message{record(20, events.TypeActivitySigned, "bob", framed(99, []byte(`{}`)))}}
	handler := &stubHandler{err: errors.New("boom")}

	err := NewProcessor(reader, handler, testLogger(t)).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	require.Equal(t, 1, handler.calls)
	require.Equal(t, 0, reader.commitCalls)
}

func TestProcessorCommitsMalformedRecords(t *testing.T) {
	noHeader := record(31, events.TypeActivityCreated, "carol", framed(1, []byte(`{}`)))
	noHeader.Headers = nil
	reader := &stubReader{messages: []kafka.Message{
		record(30, events.TypeActivityCreated, "carol", []byte(`{"raw":true}`)),
		noHeader,
	}}
	handler := &stubHandler{}

	before := testutil.ToFloat64(decodeErrorCounter.WithLabelValues(events.TopicActivity))

	err := NewProcessor(reader, handler, testLogger(t)).Run(context.Background())
	require.ErrorIs(t, err, context.Canceled)

	require.Zero(t, handler.calls)
	require.Equal(t, 2, reader.commitCalls)
	require.InDelta(t, before+2, testutil.ToFloat64(decodeErrorCounter.WithLabelValues(events.TopicActivity)), 0.0001)
}

func TestChainStopsAtFirstError(t *testing.T) {
	first := &stubHandler{err: errors.New("first failed")}
	second := &stubHandler{}

	err := Chain(first, second).Handle(context.Background(), Message{})
	require.EqualError(t, err, "first failed")
	require.Equal(t, 1, first.calls)
	require.Zero(t, second.calls)
}

func TestCacheInvalidatorReactsToHourChanges(t *testing.T) {
	cache := &countingCache{}
	inv := NewCacheInvalidator(cache)
	ctx := context.Background()

	for _, eventType := range []string{events.TypeActivityCreated, events.TypeActivityDeleted, events.TypeActivitySigned, events.TypeSignatureRequested} {
		require.NoError(t, inv.Handle(ctx, Message{EventType: eventType}))
	}
	require.Equal(t, 3, cache.invalidations)
}

func TestPayloadRefPrefersOwnerHeader(t *testing.T) {
	ref := payloadRef(Message{Owner: "header-owner", Payload: []byte(`{"activity_id":"a1","owner":"payload-owner"}`)})
	require.Equal(t, "a1", ref.ActivityID)
	require.Equal(t, "header-owner", ref.Owner)

	ref = payloadRef(Message{Payload: []byte(`{"activity_id":"a2","owner":"payload-owner"}`)})
	require.Equal(t, "payload-owner", ref.Owner)

	ref = payloadRef(Message{Payload: []byte(`not json`)})
	require.Empty(t, ref.ActivityID)
}

type stubReader struct {
	messages    []kafka.Message
	index       int
	commitCalls int
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if r.index >= len(r.messages) {
		return kafka.Message{}, context.Canceled
	}
	msg := r.messages[r.index]
	r.index++
	return msg, nil
}

func (r *stubReader) CommitMessages(_ context.Context, _ ...kafka.Message) error {
	r.commitCalls++
	return nil
}

func (r *stubReader) Close() error { return nil }

type stubHandler struct {
	calls int
	err   error
	last  Message
}

func (h *stubHandler) Handle(_ context.Context, msg Message) error {
	h.calls++
	h.last = msg
	return h.err
}

type countingCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *countingCache) Get(context.Context) ([]domain.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (c *countingCache) Generation(context.Context) (int64, error) { return 0, nil }

func (c *countingCache) Set(context.Context, int64, []domain.LeaderboardEntry) error { return nil }

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	return nil
}
