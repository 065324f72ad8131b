package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// fakeReader serves queued messages and then blocks until the context ends.
type fakeReader struct {
	messages  chan kafka.Message
	committed chan kafka.Message
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{
		messages:  make(chan kafka.Message, len(msgs)),
		committed: make(chan kafka.Message, len(msgs)),
	}
	for _, m := range msgs {
		r.messages <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.messages:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed <- m
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func message(t *testing.T, e Event) kafka.Message {
	value, err := json.Marshal(e)
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	event := companyEvent()
	reader := newFakeReader(message(t, event))
	consumer := newConsumer(reader, zaptest.NewLogger(t))

	handled := make(chan Event, 1)
	consumer.RegisterHandler(func(_ context.Context, e Event) error {
		handled <- e
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	consumer.Start(ctx)

	select {
	case got := <-handled:
		assert.Equal(t, event.Type, got.Type)
		assert.Equal(t, event.CompanyID, got.CompanyID)
		assert.Equal(t, event.Company.Name, got.Company.Name)
	case <-time.After(time.Second):
		t.Fatal("event was not handled")
	}
	select {
	case <-reader.committed:
	case <-time.After(time.Second):
		t.Fatal("message was not committed")
	}

	cancel()
	select {
	case <-consumer.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_HandlerErrorSkipsCommit(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	reader := newFakeReader()
	consumer := newConsumer(reader, zap.New(core))
	consumer.RegisterHandler(func(context.Context, Event) error {
		return errors.New("boom")
	})

	consumer.handle(context.Background(), message(t, companyEvent()))

	assert.Equal(t, 1, recorded.FilterMessage("Failed to handle event").Len())
	assert.Empty(t, reader.committed)
}

func TestConsumer_MalformedMessageIsCommitted(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	reader := newFakeReader()
	reader.committed = make(chan kafka.Message, 1)
	consumer := newConsumer(reader, zap.New(core))

	consumer.handle(context.Background(), kafka.Message{Value: []byte("{not json")})

	assert.Equal(t, 1, recorded.FilterMessage("Failed to parse event").Len())
	assert.Len(t, reader.committed, 1, "poison messages must not block the partition")
}

func TestConsumer_NoHandler(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	consumer := newConsumer(newFakeReader(), zap.New(core))

	consumer.handle(context.Background(), message(t, companyEvent()))

	assert.Equal(t, 1, recorded.FilterField(zap.Error(errNoHandler)).Len())
}
