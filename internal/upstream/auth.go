package upstream

import (
	"context"
	"net/http"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
)

// ObtainToken exchanges email and password for a credential pair.
func (c *Client) ObtainToken(ctx context.Context, email, password string) (domain.CredentialPair, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := c.do(ctx, http.MethodPost, "/token/", payload, &resp); err != nil {
		return domain.CredentialPair{}, err
	}

	return domain.CredentialPair{Access: resp.Access, Refresh: resp.Refresh}, nil
}

// RefreshToken exchanges the refresh credential for a new access credential.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	payload := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refresh}

	var resp struct {
		Access string `json:"access"`
	}
	if err := c.do(ctx, http.MethodPost, "/token/refresh/", payload, &resp); err != nil {
		return "", err
	}

	return resp.Access, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, input port.SignupInput) error {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone,omitempty"`
		City     string `json:"city,omitempty"`
		Role     string `json:"role,omitempty"`
	}{
		Email:    input.Email,
		Password: input.Password,
		Phone:    input.Phone,
		City:     input.City,
		Role:     string(input.Role),
	}

	return c.do(ctx, http.MethodPost, "/users/signup/", payload, nil)
}
