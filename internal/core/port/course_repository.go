package port

import (
	"context"

	"github.com/arklim/selfstudy-web/internal/core/domain"
)

// CourseEdit captures the editable course fields. Nil means "leave as is".
type CourseEdit struct {
	Title       *string
	Description *string
}

// MaterialInput captures the add-material payload. Illustration, when set, is
// sent as a multipart file part.
type MaterialInput struct {
	Title        string
	Content      string
	VideoLink    string
	Illustration *Upload
}

// CourseRepository is the platform-backed course data access.
type CourseRepository interface {
	List(ctx context.Context) ([]domain.Course, error)
	Get(ctx context.Context, id int64) (*domain.Course, error)
	Mine(ctx context.Context) ([]domain.Course, error)
	Create(ctx context.Context, title, description string) (*domain.Course, error)
	Edit(ctx context.Context, id int64, input CourseEdit) (*domain.Course, error)
	Enroll(ctx context.Context, id int64) error
	Materials(ctx context.Context, courseID int64) ([]domain.Material, error)
	AddMaterial(ctx context.Context, courseID int64, input MaterialInput) (*domain.Material, error)
	Material(ctx context.Context, id int64) (*domain.Material, error)
}
