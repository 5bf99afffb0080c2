package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ClientReader defines read operations for clients
type ClientReader interface {
	FindClientByID(ctx context.Context, userID, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, userID, search string, params domain.ListParams) ([]domain.Client, error)
	// GetClientTotals sums invoiced, paid and outstanding amounts of the client's invoices.
	GetClientTotals(ctx context.Context, userID, clientID string) (*domain.ClientTotals, error)
}

// ClientWriter defines write operations for clients
type ClientWriter interface {
	// SaveClient inserts a client. A name already used by the user yields ErrDuplicate.
	SaveClient(ctx context.Context, client domain.Client) error
	UpdateClient(ctx context.Context, client domain.Client) error
	// DeleteClient yields ErrConflict while invoices still reference the client.
	DeleteClient(ctx context.Context, userID, clientID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
