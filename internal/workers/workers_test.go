package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock Webhook Inbox ---

type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) InsertWebhookEvent(ctx context.Context, event domain.WebhookEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockInbox) ClaimWebhookEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WebhookEvent), args.Error(1)
}

func (m *MockInbox) MarkWebhookProcessed(ctx context.Context, eventID string, at time.Time) error {
	return m.Called(ctx, eventID, at).Error(0)
}

func (m *MockInbox) MarkWebhookAttemptFailed(ctx context.Context, eventID, lastError string, maxAttempts int) error {
	return m.Called(ctx, eventID, lastError, maxAttempts).Error(0)
}

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessEvent(ctx context.Context, event domain.WebhookEvent) error {
	return m.Called(ctx, event).Error(0)
}

// --- Mock Email Outbox ---

type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) EnqueueEmail(ctx context.Context, msg domain.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockOutbox) ClaimPendingEmails(ctx context.Context, limit int) ([]domain.EmailMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailMessage), args.Error(1)
}

func (m *MockOutbox) MarkEmailSent(ctx context.Context, emailID string, at time.Time) error {
	return m.Called(ctx, emailID, at).Error(0)
}

func (m *MockOutbox) MarkEmailAttemptFailed(ctx context.Context, emailID, lastError string, maxAttempts int) error {
	return m.Called(ctx, emailID, lastError, maxAttempts).Error(0)
}

type MockMailer struct {
	mock.Mock
	enabled bool
}

func (m *MockMailer) Enabled() bool { return m.enabled }

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestWaveInboxDispatcher_ProcessBatch(t *testing.T) {
	inbox := new(MockInbox)
	proc := new(MockProcessor)
	d := NewWaveInboxDispatcher(inbox, proc, Options{BatchSize: 10, MaxAttempts: 3}, slog.Default())
	d.now = func() time.Time { return fixedNow }

	ok := domain.WebhookEvent{EventID: "EV_1", EventType: domain.WaveCheckoutCompleted}
	bad := domain.WebhookEvent{EventID: "EV_2", EventType: domain.WaveCheckoutCompleted, Attempts: 1}

	inbox.On("ClaimWebhookEvents", mock.Anything, 10).Return([]domain.WebhookEvent{ok, bad}, nil).Once()
	proc.On("ProcessEvent", mock.Anything, ok).Return(nil).Once()
	proc.On("ProcessEvent", mock.Anything, bad).Return(errors.New("invoice lookup failed")).Once()
	inbox.On("MarkWebhookProcessed", mock.Anything, "EV_1", fixedNow).Return(nil).Once()
	inbox.On("MarkWebhookAttemptFailed", mock.Anything, "EV_2", "invoice lookup failed", 3).Return(nil).Once()

	n, err := d.processBatch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	inbox.AssertExpectations(t)
	proc.AssertExpectations(t)
}

func TestWaveInboxDispatcher_ClaimError(t *testing.T) {
	inbox := new(MockInbox)
	d := NewWaveInboxDispatcher(inbox, new(MockProcessor), Options{}, slog.Default())
	inbox.On("ClaimWebhookEvents", mock.Anything, 20).Return(nil, errors.New("db down")).Once()

	_, err := d.processBatch(t.Context())
	assert.ErrorContains(t, err, "db down")
}

func TestEmailDispatcher_ProcessBatch(t *testing.T) {
	outbox := new(MockOutbox)
	mailer := &MockMailer{enabled: true}
	d := NewEmailDispatcher(outbox, mailer, Options{BatchSize: 5, MaxAttempts: 4}, slog.Default())
	d.now = func() time.Time { return fixedNow }

	sent := domain.EmailMessage{EmailID: "m1", ToAddress: "a@example.com", Subject: "Hi", Body: "Body"}
	failed := domain.EmailMessage{EmailID: "m2", ToAddress: "b@example.com", Subject: "Yo", Body: "Body"}

	outbox.On("ClaimPendingEmails", mock.Anything, 5).Return([]domain.EmailMessage{sent, failed}, nil).Once()
	mailer.On("Send", mock.Anything, "a@example.com", "Hi", "Body").Return(nil).Once()
	mailer.On("Send", mock.Anything, "b@example.com", "Yo", "Body").Return(errors.New("smtp 451")).Once()
	outbox.On("MarkEmailSent", mock.Anything, "m1", fixedNow).Return(nil).Once()
	outbox.On("MarkEmailAttemptFailed", mock.Anything, "m2", "smtp 451", 4).Return(nil).Once()

	n, err := d.processBatch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	outbox.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestEmailDispatcher_DisabledMailerSkips(t *testing.T) {
	outbox := new(MockOutbox)
	d := NewEmailDispatcher(outbox, &MockMailer{}, Options{}, slog.Default())

	n, err := d.processBatch(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
	outbox.AssertNotCalled(t, "ClaimPendingEmails", mock.Anything, mock.Anything)
}

func TestLoop_StopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	l := newLoop("test", Options{PollInterval: 5 * time.Millisecond, BatchSize: 10}, slog.Default(), func(context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return 0, nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	go l.Start(ctx)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() { l.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
