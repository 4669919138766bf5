package messaging

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-notification/internal/domain/event"
)

type ackRecord struct {
	tag     uint64
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records []ackRecord
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, acked: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) snapshot() []ackRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ackRecord(nil), f.records...)
}

type fakeHandler struct {
	mu     sync.Mutex
	err    error
	events []event.UserEvent
}

func (h *fakeHandler) HandleUserEvent(ctx context.Context, ev *event.UserEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, *ev)
	return h.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: []byte(body)}
}

func TestHandle_AcksProcessedEvent(t *testing.T) {
	ack := &fakeAcknowledger{}
	h := &fakeHandler{}
	c := NewUserEventsConsumer(h, quietLogger())

	c.Handle(context.Background(), delivery(ack, 1,
		`{"operation":"CREATE","email":"john@example.com","username":"John","language":"ru"}`))

	require.Len(t, h.events, 1)
	assert.Equal(t, event.UserEvent{Operation: "CREATE", Email: "john@example.com", Username: "John", Language: "ru"}, h.events[0])
	assert.Equal(t, []ackRecord{{tag: 1, acked: true}}, ack.snapshot())
}

func TestHandle_BadJSONIsDropped(t *testing.T) {
	ack := &fakeAcknowledger{}
	h := &fakeHandler{}
	c := NewUserEventsConsumer(h, quietLogger())

	c.Handle(context.Background(), delivery(ack, 7, `{not json`))

	assert.Empty(t, h.events)
	assert.Equal(t, []ackRecord{{tag: 7}}, ack.snapshot())
}

func TestHandle_HandlerFailureIsNotRequeued(t *testing.T) {
	ack := &fakeAcknowledger{}
	h := &fakeHandler{err: errors.New("failed to send email to: john@example.com")}
	c := NewUserEventsConsumer(h, quietLogger())

	c.Handle(context.Background(), delivery(ack, 3, `{"operation":"DELETE","email":"john@example.com"}`))

	assert.Len(t, h.events, 1)
	assert.Equal(t, []ackRecord{{tag: 3, requeue: false}}, ack.snapshot())
}

func TestRun_StopsWhenChannelCloses(t *testing.T) {
	ack := &fakeAcknowledger{}
	h := &fakeHandler{}
	c := NewUserEventsConsumer(h, quietLogger())

	ch := make(chan amqp.Delivery, 2)
	ch <- delivery(ack, 1, `{"operation":"CREATE","email":"a@x.io"}`)
	ch <- delivery(ack, 2, `{"operation":"DELETE","email":"b@x.io"}`)
	close(ch)

	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), ch)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Len(t, ack.snapshot(), 2)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	c := NewUserEventsConsumer(&fakeHandler{}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, make(chan amqp.Delivery))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestHandle_FailureDuringShutdownIsRequeued(t *testing.T) {
	ack := &fakeAcknowledger{}
	h := &fakeHandler{err: errors.New("context canceled")}
	c := NewUserEventsConsumer(h, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c.Handle(ctx, delivery(ack, 4, `{"operation":"CREATE","email":"john@example.com"}`))

	assert.Equal(t, []ackRecord{{tag: 4, requeue: true}}, ack.snapshot())
}

func TestHandle_NilLogger(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := NewUserEventsConsumer(&fakeHandler{err: errors.New("boom")}, nil)

	assert.NotPanics(t, func() {
		c.Handle(context.Background(), delivery(ack, 1, `{not json`))
		c.Handle(context.Background(), delivery(ack, 2, `{"operation":"CREATE","email":"a@b"}`))
	})
	assert.Len(t, ack.snapshot(), 2)
}
