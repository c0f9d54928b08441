package email

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("mail queue is full")
	ErrQueueClosed = errors.New("mail queue is closed")
)

// MailQueue decouples email dispatch from the request path. Messages that
// arrive together (the user/builder pair for one payment) travel as one
// batch. Delivery failures are logged and dropped, never retried.
type MailQueue struct {
	items   chan []Message
	done    chan struct{}
	maxSize int
	closed  bool
	mu      sync.RWMutex
	logger  *logrus.Logger
	mailer  Mailer
}

func NewMailQueue(bufferSize int, mailer Mailer, logger *logrus.Logger) *MailQueue {
	return &MailQueue{
		items:   make(chan []Message, bufferSize),
		done:    make(chan struct{}),
		maxSize: bufferSize,
		logger:  logger,
		mailer:  mailer,
	}
}

// Push enqueues a batch of messages without blocking the caller.
func (q *MailQueue) Push(messages []Message) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- messages:
		q.logger.WithField("batch_size", len(messages)).Debug("Pushed messages to mail queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Start begins delivering queued messages.
func (q *MailQueue) Start() {
	go q.process()
}

func (q *MailQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.deliverBatch(batch)
		}
	}
}

func (q *MailQueue) deliverBatch(batch []Message) {
	for _, msg := range batch {
		if err := q.mailer.Send(msg); err != nil {
			q.logger.WithError(err).WithField("to", msg.To).Error("Failed to deliver email")
		}
	}
}

// Close stops delivery and prevents new messages from being queued.
func (q *MailQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of queued batches.
func (q *MailQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *MailQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
