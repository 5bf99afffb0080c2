package gateways

import (
	"context"
	"io"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ChatCompleter sends a conversation to an OpenAI-compatible chat endpoint.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
	Enabled() bool
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
	Enabled() bool
}

// FileStorage keeps uploaded blobs.
type FileStorage interface {
	// Save writes r under key and returns the number of bytes written.
	// It fails with ErrPayloadTooLarge when r exceeds maxBytes.
	Save(ctx context.Context, key string, r io.Reader, maxBytes int64) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// DocumentRenderer renders business documents to PDF.
type DocumentRenderer interface {
	RenderInvoice(inv domain.Invoice, company domain.CompanySettings, client *domain.Client) ([]byte, error)
	RenderDashboardReport(stats domain.DashboardStats, company domain.CompanySettings) ([]byte, error)
}

// Cache stores small JSON-serialisable values with a TTL.
type Cache interface {
	// Get returns false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
