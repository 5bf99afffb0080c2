package services

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"google.golang.org/api/idtoken"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// Register creates a local account. A taken email yields ErrDuplicate.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// UpdateProfile updates the caller's editable profile fields.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)

	// FindOrCreateGoogleUser links a verified Google identity to an account.
	FindOrCreateGoogleUser(ctx context.Context, payload *idtoken.Payload) (*domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}

// TokenSvcFacade issues session tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// ExchangeCodeForIDToken exchanges an authorization code and returns the
	// validated ID token payload.
	ExchangeCodeForIDToken(ctx context.Context, code string) (*idtoken.Payload, error)
}
