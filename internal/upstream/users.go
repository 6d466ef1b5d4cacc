package upstream

import (
	"context"
	"net/http"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
)

// Me fetches the caller's profile.
func (c *Client) Me(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/users/profiles/me/", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateMe saves the mutable profile fields. With an avatar attached the
// request switches to multipart form data.
func (c *Client) UpdateMe(ctx context.Context, input port.ProfileUpdate) (*domain.Profile, error) {
	var profile domain.Profile

	if input.Avatar != nil {
		fields := make(map[string]string)
		if input.Name != nil {
			fields["name"] = *input.Name
		}
		if input.Phone != nil {
			fields["phone"] = *input.Phone
		}
		if input.City != nil {
			fields["city"] = *input.City
		}
		files := map[string]port.Upload{"avatar": *input.Avatar}

		if err := c.doMultipart(ctx, http.MethodPut, "/users/profiles/me/", fields, files, &profile); err != nil {
			return nil, err
		}
		return &profile, nil
	}

	payload := struct {
		Name  *string `json:"name,omitempty"`
		Phone *string `json:"phone,omitempty"`
		City  *string `json:"city,omitempty"`
	}{Name: input.Name, Phone: input.Phone, City: input.City}

	if err := c.do(ctx, http.MethodPut, "/users/profiles/me/", payload, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Teachers lists the platform's teachers with their courses. Public endpoint.
func (c *Client) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	if err := c.do(ctx, http.MethodGet, "/users/teachers/", nil, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}
