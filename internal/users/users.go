// Package users handles employee identity: resolving Telegram accounts
// to employees, the NIK registration flow, and deposit balances.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/ksabot/core/logger"
	"github.com/m3rciful/ksabot/internal/domain"
	"github.com/m3rciful/ksabot/internal/storage"
)

var (
	// ErrNotRegistered means the Telegram account is not bound to any
	// active employee.
	ErrNotRegistered = errors.New("users: telegram account not registered")
	// ErrInvalidNIK means the typed NIK is not exactly 10 digits.
	ErrInvalidNIK = errors.New("users: nik must be 10 digits")
	// ErrNIKNotFound means no active employee carries the NIK.
	ErrNIKNotFound = errors.New("users: nik not found")
)

// Store provides the employee and deposit reads the service needs.
type Store interface {
	EmployeeByTelegramID(ctx context.Context, telegramID int64) (domain.Employee, error)
	EmployeeByNIK(ctx context.Context, nik string) (domain.Employee, error)
	BindTelegramID(ctx context.Context, nik string, telegramID int64) error
	Balance(ctx context.Context, nik string) (float64, error)
	LastDeposit(ctx context.Context, nik string) (domain.DepositEntry, error)
}

// Service implements identity and balance operations.
type Service struct {
	store Store
}

// NewService returns a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ValidateNIK reports whether nik is exactly 10 ASCII digits.
func ValidateNIK(nik string) bool {
	if len(nik) != 10 {
		return false
	}
	for _, r := range nik {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Identify resolves a Telegram account to its employee.
func (s *Service) Identify(ctx context.Context, telegramID int64) (domain.Employee, error) {
	e, err := s.store.EmployeeByTelegramID(ctx, telegramID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Employee{}, ErrNotRegistered
	}
	if err != nil {
		return domain.Employee{}, fmt.Errorf("identify: %w", err)
	}
	return e, nil
}

// LookupNIK validates and resolves a typed NIK to an active employee.
func (s *Service) LookupNIK(ctx context.Context, nik string) (domain.Employee, error) {
	if !ValidateNIK(nik) {
		return domain.Employee{}, ErrInvalidNIK
	}
	e, err := s.store.EmployeeByNIK(ctx, nik)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Employee{}, ErrNIKNotFound
	}
	if err != nil {
		return domain.Employee{}, fmt.Errorf("lookup nik: %w", err)
	}
	return e, nil
}

// Register binds the Telegram account to the employee with the NIK.
func (s *Service) Register(ctx context.Context, nik string, telegramID int64) error {
	if !ValidateNIK(nik) {
		return ErrInvalidNIK
	}
	err := s.store.BindTelegramID(ctx, nik, telegramID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNIKNotFound
	}
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	logger.Info(ctx, "service.users", "user.registered",
		slog.String("nik", nik),
		slog.Int64("telegram_id", telegramID),
	)
	return nil
}

// Balance returns the employee's deposit balance.
func (s *Service) Balance(ctx context.Context, nik string) (float64, error) {
	return s.store.Balance(ctx, nik)
}

// LastDeposit returns the employee's most recent deposit, or
// storage.ErrNotFound (wrapped) when there is none.
func (s *Service) LastDeposit(ctx context.Context, nik string) (domain.DepositEntry, error) {
	return s.store.LastDeposit(ctx, nik)
}
