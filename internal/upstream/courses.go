package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
)

// List fetches the full course catalogue.
func (c *Client) List(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.do(ctx, http.MethodGet, "/courses/", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Get fetches one course with owner, materials, and the enrolled set.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Course, error) {
	var course domain.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/", id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Mine fetches the courses relevant to the caller.
func (c *Client) Mine(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.do(ctx, http.MethodGet, "/courses/my/", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Create provisions a new course owned by the caller.
func (c *Client) Create(ctx context.Context, title, description string) (*domain.Course, error) {
	payload := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}{Title: title, Description: description}

	var course domain.Course
	if err := c.do(ctx, http.MethodPost, "/courses/", payload, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Edit patches the editable course fields.
func (c *Client) Edit(ctx context.Context, id int64, input port.CourseEdit) (*domain.Course, error) {
	payload := struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
	}{Title: input.Title, Description: input.Description}

	var course domain.Course
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/courses/%d/edit/", id), payload, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Enroll adds the caller to the course's enrolled set.
func (c *Client) Enroll(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/enroll/", id), nil, nil)
}

// Materials lists the course's materials.
func (c *Client) Materials(ctx context.Context, courseID int64) ([]domain.Material, error) {
	var materials []domain.Material
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d/materials/", courseID), nil, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

// AddMaterial uploads a new material. Always multipart: the illustration may
// be a file and the platform expects form fields either way.
func (c *Client) AddMaterial(ctx context.Context, courseID int64, input port.MaterialInput) (*domain.Material, error) {
	fields := map[string]string{
		"title":      input.Title,
		"content":    input.Content,
		"video_link": input.VideoLink,
	}
	files := make(map[string]port.Upload)
	if input.Illustration != nil {
		files["illustration"] = *input.Illustration
	}

	var material domain.Material
	if err := c.doMultipart(ctx, http.MethodPost, fmt.Sprintf("/courses/%d/add-material/", courseID), fields, files, &material); err != nil {
		return nil, err
	}
	return &material, nil
}

// Material fetches one material.
func (c *Client) Material(ctx context.Context, id int64) (*domain.Material, error) {
	var material domain.Material
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/materials/%d/", id), nil, &material); err != nil {
		return nil, err
	}
	return &material, nil
}
