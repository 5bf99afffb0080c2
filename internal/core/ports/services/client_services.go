package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// ClientReaderSvc defines read operations for clients
type ClientReaderSvc interface {
	GetClient(ctx context.Context, userID, clientID string) (*domain.Client, *domain.ClientTotals, error)
	ListClients(ctx context.Context, userID, search string, params domain.ListParams) ([]domain.Client, error)
}

// ClientWriterSvc defines write operations for clients
type ClientWriterSvc interface {
	CreateClient(ctx context.Context, userID string, req dto.CreateClientRequest) (*domain.Client, error)
	UpdateClient(ctx context.Context, userID, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)
	DeleteClient(ctx context.Context, userID, clientID string) error
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
