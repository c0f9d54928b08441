package email

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (m *recordingMailer) Send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func TestNewMailQueue(t *testing.T) {
	logger := logrus.New()
	q := NewMailQueue(10, &recordingMailer{}, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestMailQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewMailQueue(2, &recordingMailer{}, logger)

	batch := []Message{{To: "user@example.com", Subject: "hello"}}
	err := q.Push(batch)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Fill the buffer, then one more must fail.
	for i := 0; i < 2; i++ {
		_ = q.Push(batch)
	}
	err = q.Push(batch)
	assert.Equal(t, ErrQueueFull, err)

	q.Close()
	err = q.Push(batch)
	assert.Equal(t, ErrQueueClosed, err)
}

func TestMailQueue_Delivery(t *testing.T) {
	logger := logrus.New()
	mailer := &recordingMailer{}
	q := NewMailQueue(10, mailer, logger)

	q.Start()

	batch := []Message{
		{To: "user@example.com", Subject: "Payment Confirmation - BuildEx"},
		{To: "builder@example.com", Subject: "Payment Received - BuildEx"},
	}
	err := q.Push(batch)
	assert.NoError(t, err)

	// Wait for the worker to drain the batch.
	time.Sleep(100 * time.Millisecond)

	sent := mailer.messages()
	assert.Equal(t, 2, len(sent))
	assert.Equal(t, "user@example.com", sent[0].To)
	assert.Equal(t, "builder@example.com", sent[1].To)
}

func TestMailQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewMailQueue(10, &recordingMailer{}, logger)

	assert.NoError(t, q.Close())
	assert.True(t, q.IsClosed())

	// Closing twice is fine.
	assert.NoError(t, q.Close())
}
