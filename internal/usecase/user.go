package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/infra/logger"
)

var (
	// ErrEmailRequired indicates a signup without an email.
	ErrEmailRequired = errors.New("email is required")
	// ErrPasswordRequired indicates a signup without a password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidRole indicates a signup with a role outside the
	// self-assignable set.
	ErrInvalidRole = errors.New("role must be student or teacher")
)

// ProfileService drives the signup, profile, and teachers screens.
type ProfileService struct {
	accounts port.AccountRepository
	log      *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(accounts port.AccountRepository, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{accounts: accounts, log: log}
}

// Signup registers a new account. Admin is not self-assignable.
func (s *ProfileService) Signup(ctx context.Context, input port.SignupInput) error {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		return ErrEmailRequired
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}

	if input.Role == "" {
		input.Role = domain.RoleStudent
	}
	if input.Role != domain.RoleStudent && input.Role != domain.RoleTeacher {
		return ErrInvalidRole
	}

	input.Phone = strings.TrimSpace(input.Phone)
	input.City = strings.TrimSpace(input.City)

	if err := s.accounts.Signup(ctx, input); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	s.log.Info("account registered",
		zap.String("email", logger.MaskEmail(input.Email)),
		zap.String("phone", logger.MaskPhone(input.Phone)),
		zap.String("role", string(input.Role)),
	)
	return nil
}

// Me fetches the caller's profile.
func (s *ProfileService) Me(ctx context.Context) (*domain.Profile, error) {
	profile, err := s.accounts.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

// Update saves the mutable profile fields.
func (s *ProfileService) Update(ctx context.Context, input port.ProfileUpdate) (*domain.Profile, error) {
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
	}
	if input.Phone != nil {
		trimmed := strings.TrimSpace(*input.Phone)
		input.Phone = &trimmed
	}
	if input.City != nil {
		trimmed := strings.TrimSpace(*input.City)
		input.City = &trimmed
	}

	profile, err := s.accounts.UpdateMe(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// Teachers lists the platform's teachers with their courses.
func (s *ProfileService) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	teachers, err := s.accounts.Teachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
