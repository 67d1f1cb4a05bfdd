package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dddddddrrrr/campus-cart/internal/domain"
	"github.com/dddddddrrrr/campus-cart/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, caller Identity) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, caller.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) AdminListUsers(ctx context.Context, caller Identity, page, pageSize int) ([]*domain.User, int, error) {
	if !caller.IsAdmin() {
		return nil, 0, ErrPermissionDenied
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.users.ListUsers(ctx, page, pageSize)
}

// UpdateUserCredit is the admin overwrite: the credit becomes exactly the
// given amount. A purchase racing this write keeps whichever update lands
// last; that lost-update window is a documented property of the operation.
func (s *UserService) UpdateUserCredit(ctx context.Context, caller Identity, userID string, amount string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	credit, err := parseAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credit amount %q", ErrInvalidInput, amount)
	}
	if credit.IsNegative() {
		return nil, fmt.Errorf("%w: credit must not be negative", ErrInvalidInput)
	}

	if err := s.users.SetUserCredit(ctx, userID, credit); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("set user credit: %w", err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	return amount.Round(2), nil
}
