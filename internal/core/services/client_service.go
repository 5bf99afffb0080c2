package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// ClientServiceOption is a functional option for configuring the client service
type ClientServiceOption func(*clientService)

// WithClientActivityRecorder records client changes in the activity feed.
func WithClientActivityRecorder(rec portssvc.ActivityRecorderSvc) ClientServiceOption {
	return func(s *clientService) {
		s.Activities = rec
	}
}

// NewClientService creates a new client service with the provided options
func NewClientService(repo portsrepo.ClientRepositoryFacade, options ...ClientServiceOption) portssvc.ClientSvcFacade {
	svc := &clientService{clientRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, userID string, req dto.CreateClientRequest) (*domain.Client, error) {
	now := time.Now()
	client := domain.Client{
		ClientID:    uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		Address:     req.Address,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if client.Name == "" {
		return nil, validationf("name must not be blank")
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a client named %q already exists", apperrors.ErrDuplicate, client.Name)
		}
		s.LogError(ctx, err, "Failed to save client", slog.String("client_id", client.ClientID))
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityClient, client.ClientID, domain.ActionCreated, "Client "+client.Name+" created")
	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

func (s *clientService) GetClient(ctx context.Context, userID, clientID string) (*domain.Client, *domain.ClientTotals, error) {
	client, err := s.clientRepo.FindClientByID(ctx, userID, clientID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		return nil, nil, err
	}
	totals, err := s.clientRepo.GetClientTotals(ctx, userID, clientID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute client totals", slog.String("client_id", clientID))
		return nil, nil, err
	}
	return client, totals, nil
}

func (s *clientService) ListClients(ctx context.Context, userID, search string, params domain.ListParams) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx, userID, strings.TrimSpace(search), params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, userID, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, userID, clientID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		return nil, err
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
		if client.Name == "" {
			return nil, validationf("name must not be blank")
		}
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Company != nil {
		client.Company = strings.TrimSpace(*req.Company)
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	client.LastUpdatedAt = time.Now()

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a client named %q already exists", apperrors.ErrDuplicate, client.Name)
		}
		s.LogUnexpected(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityClient, clientID, domain.ActionUpdated, "Client "+client.Name+" updated")
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, userID, clientID string) error {
	if err := s.clientRepo.DeleteClient(ctx, userID, clientID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: client still has invoices", apperrors.ErrConflict)
		}
		s.LogUnexpected(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return err
	}
	s.RecordActivity(ctx, userID, domain.EntityClient, clientID, domain.ActionDeleted, "Client deleted")
	return nil
}
