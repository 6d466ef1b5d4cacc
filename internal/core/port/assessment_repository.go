package port

import (
	"context"

	"github.com/arklim/selfstudy-web/internal/core/domain"
)

// AssessmentRepository is the platform-backed test data access.
type AssessmentRepository interface {
	Tests(ctx context.Context, courseID int64) ([]domain.Test, error)
	Test(ctx context.Context, id int64) (*domain.Test, error)
	SubmitResult(ctx context.Context, result domain.TestResult) error
}
