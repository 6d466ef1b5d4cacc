package port

import (
	"context"

	"github.com/arklim/selfstudy-web/internal/core/domain"
)

// Upload is a file attached to a multipart request.
type Upload struct {
	FileName string
	Content  []byte
}

// SignupInput captures the registration payload.
type SignupInput struct {
	Email    string
	Password string
	Phone    string
	City     string
	Role     domain.Role
}

// ProfileUpdate captures the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name   *string
	Phone  *string
	City   *string
	Avatar *Upload
}

// AccountRepository is the platform-backed account data access.
type AccountRepository interface {
	Signup(ctx context.Context, input SignupInput) error
	Me(ctx context.Context) (*domain.Profile, error)
	UpdateMe(ctx context.Context, input ProfileUpdate) (*domain.Profile, error)
	Teachers(ctx context.Context) ([]domain.Teacher, error)
}
