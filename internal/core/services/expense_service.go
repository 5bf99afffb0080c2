package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/utils"
)

type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	projectRepo portsrepo.ProjectReader
	stats       statsInvalidator
	now         func() time.Time
}

// ExpenseServiceOption is a functional option for configuring the expense service
type ExpenseServiceOption func(*expenseService)

// WithExpenseActivityRecorder records expense changes in the activity feed.
func WithExpenseActivityRecorder(rec portssvc.ActivityRecorderSvc) ExpenseServiceOption {
	return func(s *expenseService) {
		s.Activities = rec
	}
}

// WithExpenseNotifier enables renewal notifications.
func WithExpenseNotifier(n portssvc.NotifierSvc) ExpenseServiceOption {
	return func(s *expenseService) {
		s.Notifier = n
	}
}

// WithExpenseStatsInvalidator invalidates dashboard caches when expenses change.
func WithExpenseStatsInvalidator(inv statsInvalidator) ExpenseServiceOption {
	return func(s *expenseService) {
		s.stats = inv
	}
}

// NewExpenseService creates a new expense service with the provided options
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, projectRepo portsrepo.ProjectReader, options ...ExpenseServiceOption) portssvc.ExpenseSvcFacade {
	svc := &expenseService{expenseRepo: expenseRepo, projectRepo: projectRepo, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	now := s.now()
	expense := domain.Expense{
		ExpenseID:      uuid.NewString(),
		UserID:         userID,
		ProjectID:      req.ProjectID,
		Category:       domain.ExpenseCategory(req.Category),
		Description:    strings.TrimSpace(req.Description),
		Vendor:         strings.TrimSpace(req.Vendor),
		Amount:         req.Amount,
		Currency:       req.Currency,
		ExpenseDate:    req.ExpenseDate,
		IsSubscription: req.IsSubscription,
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if expense.Currency == "" {
		expense.Currency = domain.DefaultCurrency
	}
	if expense.IsSubscription {
		if req.BillingCycle == nil {
			return nil, validationf("billingCycle is required for subscriptions")
		}
		cycle := domain.BillingCycle(*req.BillingCycle)
		expense.BillingCycle = &cycle
		expense.SubscriptionActive = true
		next := domain.AddBillingCycle(expense.ExpenseDate, cycle)
		expense.BillingAnchorDay = expense.ExpenseDate.Day()
		if req.NextBillingDate != nil {
			next = *req.NextBillingDate
			expense.BillingAnchorDay = next.Day()
		}
		expense.NextBillingDate = &next
	}
	if err := s.validate(ctx, &expense); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityExpense, expense.ExpenseID, domain.ActionCreated,
		fmt.Sprintf("Expense %s (%s) recorded", expense.Description, utils.FormatMoney(expense.Amount, expense.Currency)))
	s.invalidate(ctx, userID, expense.ExpenseDate.Year())
	return &expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, userID, expenseID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	filter.ListParams = filter.ListParams.Normalize()
	expenses, err := s.expenseRepo.ListExpenses(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	expense, err := s.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	previousYear := expense.ExpenseDate.Year()

	if req.Category != nil {
		expense.Category = domain.ExpenseCategory(*req.Category)
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Vendor != nil {
		expense.Vendor = strings.TrimSpace(*req.Vendor)
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Currency != nil {
		expense.Currency = *req.Currency
	}
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if req.ProjectID != nil {
		expense.ProjectID = req.ProjectID
	}
	if req.BillingCycle != nil || req.NextBillingDate != nil {
		if !expense.IsSubscription {
			return nil, validationf("billing fields only apply to subscriptions")
		}
		if req.BillingCycle != nil {
			cycle := domain.BillingCycle(*req.BillingCycle)
			expense.BillingCycle = &cycle
		}
		if req.NextBillingDate != nil {
			next := *req.NextBillingDate
			expense.NextBillingDate = &next
			expense.BillingAnchorDay = next.Day()
		}
	}
	if err := s.validate(ctx, expense); err != nil {
		return nil, err
	}
	expense.LastUpdatedAt = s.now()

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	s.RecordActivity(ctx, userID, domain.EntityExpense, expenseID, domain.ActionUpdated, "Expense "+expense.Description+" updated")
	s.invalidate(ctx, userID, previousYear, expense.ExpenseDate.Year())
	return expense, nil
}

func (s *expenseService) SetSubscriptionActive(ctx context.Context, userID, expenseID string, active bool) (*domain.Expense, error) {
	expense, err := s.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsSubscription {
		return nil, validationf("expense is not a subscription")
	}
	if expense.SubscriptionActive == active {
		return expense, nil
	}
	expense.SubscriptionActive = active
	expense.LastUpdatedAt = s.now()

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update subscription", slog.String("expense_id", expenseID))
		return nil, err
	}
	state := "paused"
	if active {
		state = "resumed"
	}
	s.RecordActivity(ctx, userID, domain.EntityExpense, expenseID, domain.ActionStatusChanged, "Subscription "+expense.Description+" "+state)
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpense(ctx, userID, expenseID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return err
	}
	s.RecordActivity(ctx, userID, domain.EntityExpense, expenseID, domain.ActionDeleted, "Expense "+expense.Description+" deleted")
	s.invalidate(ctx, userID, expense.ExpenseDate.Year())
	return nil
}

func (s *expenseService) RenewDueSubscriptions(ctx context.Context, now time.Time) (int, error) {
	due, err := s.expenseRepo.ListDueSubscriptions(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due subscriptions")
		return 0, err
	}

	renewed := 0
	for i := range due {
		parent := due[i]
		// A subscription that missed several cycles catches up one period at a time.
		for {
			child, ok := parent.Renew(now, uuid.NewString())
			if !ok {
				break
			}
			if err := s.expenseRepo.RenewSubscription(ctx, parent, child); err != nil {
				s.LogError(ctx, err, "Failed to renew subscription", slog.String("expense_id", parent.ExpenseID))
				break
			}
			renewed++
			s.RecordActivity(ctx, parent.UserID, domain.EntityExpense, child.ExpenseID, domain.ActionCreated,
				"Subscription "+parent.Description+" renewed")
			s.Notify(ctx, portssvc.NotifyInput{
				UserID:     parent.UserID,
				Type:       domain.NotificationSubscriptionRenewed,
				Title:      "Subscription renewed",
				Message:    fmt.Sprintf("%s renewed for %s.", parent.Description, utils.FormatMoney(child.Amount, child.Currency)),
				EntityType: domain.EntityExpense,
				EntityID:   child.ExpenseID,
			})
			s.invalidate(ctx, parent.UserID, child.ExpenseDate.Year())
		}
	}
	s.LogInfo(ctx, "Subscriptions renewed", slog.Int("count", renewed))
	return renewed, nil
}

func (s *expenseService) validate(ctx context.Context, e *domain.Expense) error {
	if e.Description == "" {
		return validationf("description must not be blank")
	}
	if !e.Amount.IsPositive() {
		return validationf("amount must be positive")
	}
	if e.IsSubscription && e.NextBillingDate != nil && e.NextBillingDate.Before(e.ExpenseDate) {
		return validationf("next billing date must not be before the expense date")
	}
	if e.ProjectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, e.UserID, *e.ProjectID); err != nil {
			if isNotFound(err) {
				return validationf("project %s does not exist", *e.ProjectID)
			}
			return err
		}
	}
	return nil
}

func (s *expenseService) invalidate(ctx context.Context, userID string, years ...int) {
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID, years...)
	}
}
