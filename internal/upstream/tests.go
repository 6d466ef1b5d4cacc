package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/arklim/selfstudy-web/internal/core/domain"
)

// Tests lists a course's tests.
func (c *Client) Tests(ctx context.Context, courseID int64) ([]domain.Test, error) {
	var tests []domain.Test
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/tests/", courseID), nil, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// Test fetches one test with its questions.
func (c *Client) Test(ctx context.Context, id int64) (*domain.Test, error) {
	var test domain.Test
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tests/%d/", id), nil, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

// SubmitResult sends a completed test's answers.
func (c *Client) SubmitResult(ctx context.Context, result domain.TestResult) error {
	return c.do(ctx, http.MethodPost, "/test-results/", result, nil)
}
