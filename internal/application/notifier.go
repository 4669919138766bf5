package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/event"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
)

// EventPublisher hands a user event to the notification service.
type EventPublisher interface {
	Name() string
	Publish(ctx context.Context, ev event.UserEvent) error
}

// UserIndexer mirrors users into a search index.
type UserIndexer interface {
	IndexUser(ctx context.Context, u dto.UserResponse) error
	RemoveUser(ctx context.Context, id int64) error
}

const (
	// queued changes beyond this run on their own goroutine, unordered
	notifyQueueSize = 256
	// upper bound for delivering one change to every sink
	notifyTimeout = 30 * time.Second
)

// Notifier fans user lifecycle changes out to the configured sinks. A failing
// sink is logged and never fails the operation that triggered it.
//
// Delivery happens in the background, in submission order, on a context
// detached from the caller's cancellation; the methods return immediately.
//
// CREATE and DELETE go to every publisher; the notification service ignores
// UPDATE, so updates only refresh the search index.
type Notifier struct {
	publishers []EventPublisher
	index      UserIndexer
	logger     *logrus.Logger
	metrics    *metrics.AppMetrics

	jobs    chan func()
	start   sync.Once
	pending sync.WaitGroup
}

func NewNotifier(logger *logrus.Logger, m *metrics.AppMetrics, index UserIndexer, publishers ...EventPublisher) *Notifier {
	return &Notifier{
		publishers: publishers,
		index:      index,
		logger:     logger,
		metrics:    m,
		jobs:       make(chan func(), notifyQueueSize),
	}
}

func (n *Notifier) UserCreated(ctx context.Context, u dto.UserResponse, lang string) {
	if n == nil {
		return
	}
	ev := event.NewCreated(u.Email, u.Name, lang)
	n.dispatch(ctx, func(ctx context.Context) {
		n.publish(ctx, ev)
		n.reindex(ctx, u)
	})
}

func (n *Notifier) UserUpdated(ctx context.Context, u dto.UserResponse, lang string) {
	if n == nil {
		return
	}
	n.dispatch(ctx, func(ctx context.Context) { n.reindex(ctx, u) })
}

func (n *Notifier) UserDeleted(ctx context.Context, u dto.UserResponse, lang string) {
	if n == nil {
		return
	}
	ev := event.NewDeleted(u.Email, u.Name, lang)
	n.dispatch(ctx, func(ctx context.Context) {
		n.publish(ctx, ev)
		if n.index == nil {
			return
		}
		if err := n.index.RemoveUser(ctx, u.ID); err != nil {
			n.warn(err, logrus.Fields{"sink": "search", "user_id": u.ID}, "remove user from index failed")
		}
	})
}

// Wait blocks until every change submitted so far has been delivered.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.pending.Wait()
}

func (n *Notifier) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	ctx = context.WithoutCancel(ctx)
	n.pending.Add(1)
	job := func() {
		defer n.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		fn(ctx)
	}

	n.start.Do(func() {
		if n.jobs != nil {
			go n.work()
		}
	})
	select {
	case n.jobs <- job:
	default:
		if n.logger != nil {
			n.logger.Warn("notification queue full, delivering out of order")
		}
		go job()
	}
}

func (n *Notifier) work() {
	for job := range n.jobs {
		job()
	}
}

func (n *Notifier) publish(ctx context.Context, ev event.UserEvent) {
	for _, p := range n.publishers {
		err := p.Publish(ctx, ev)
		n.metrics.RecordEventPublished(p.Name(), err)
		if err != nil {
			n.warn(err, logrus.Fields{"sink": p.Name(), "operation": ev.Operation, "email": ev.Email}, "publish user event failed")
			continue
		}
		if n.logger != nil {
			n.logger.WithFields(logrus.Fields{"sink": p.Name(), "operation": ev.Operation, "email": ev.Email}).Debug("user event published")
		}
	}
}

func (n *Notifier) reindex(ctx context.Context, u dto.UserResponse) {
	if n.index == nil {
		return
	}
	if err := n.index.IndexUser(ctx, u); err != nil {
		n.warn(err, logrus.Fields{"sink": "search", "user_id": u.ID}, "index user failed")
	}
}

func (n *Notifier) warn(err error, fields logrus.Fields, msg string) {
	if n.logger != nil {
		n.logger.WithError(err).WithFields(fields).Warn(msg)
	}
}
