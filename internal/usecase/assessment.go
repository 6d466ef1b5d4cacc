package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
)

// ErrNoAnswers indicates a test submission with no answers filled in.
var ErrNoAnswers = errors.New("no answers submitted")

// AssessmentService drives the tests screens.
type AssessmentService struct {
	assessments port.AssessmentRepository
	log         *zap.Logger
}

// NewAssessmentService constructs an AssessmentService.
func NewAssessmentService(assessments port.AssessmentRepository, log *zap.Logger) *AssessmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssessmentService{assessments: assessments, log: log}
}

// Tests lists a course's tests.
func (s *AssessmentService) Tests(ctx context.Context, courseID int64) ([]domain.Test, error) {
	tests, err := s.assessments.Tests(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list tests for course %d: %w", courseID, err)
	}
	return tests, nil
}

// Test fetches one test with its questions.
func (s *AssessmentService) Test(ctx context.Context, id int64) (*domain.Test, error) {
	test, err := s.assessments.Test(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get test %d: %w", id, err)
	}
	return test, nil
}

// Submit sends the caller's answers keyed by question id. Grading is the
// platform's job, so the submitted score is always zero.
func (s *AssessmentService) Submit(ctx context.Context, testID int64, answers map[int64]string) error {
	if len(answers) == 0 {
		return ErrNoAnswers
	}

	keyed := make(map[string]string, len(answers))
	for questionID, answer := range answers {
		keyed[strconv.FormatInt(questionID, 10)] = answer
	}

	result := domain.TestResult{Test: testID, Answers: keyed}
	if err := s.assessments.SubmitResult(ctx, result); err != nil {
		return fmt.Errorf("submit test %d: %w", testID, err)
	}

	s.log.Info("test submitted",
		zap.Int64("test_id", testID),
		zap.Int("answers", len(answers)),
	)
	return nil
}
