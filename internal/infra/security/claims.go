package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arklim/selfstudy-web/internal/core/domain"
)

// ErrMalformedCredential indicates the access credential cannot be decoded.
// Callers treat it as "unauthenticated", never as a fatal failure.
var ErrMalformedCredential = errors.New("security: malformed access credential")

// AccessClaims are the identity claims embedded in the access credential's
// payload. Signing and validation are the platform's concern; the client
// only reads the payload segment, so nothing here verifies a signature.
type AccessClaims struct {
	UserID json.Number `json:"user_id"`
	Role   string      `json:"role,omitempty"`
}

// SubjectID returns the subject id claim as a string.
func (c AccessClaims) SubjectID() string {
	return c.UserID.String()
}

// Identity converts the claims into a domain identity. Role may be empty when
// the credential does not carry the claim; callers must then fall back to the
// profile.
func (c AccessClaims) Identity() domain.Identity {
	return domain.Identity{
		SubjectID: c.SubjectID(),
		Role:      domain.Role(c.Role),
	}
}

// ParseAccessClaims decodes the payload segment of a bearer credential.
// It requires the familiar three dot-separated segments and a base64url JSON
// payload, but deliberately ignores the header and signature segments.
func ParseAccessClaims(token string) (*AccessClaims, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected three segments, got %d", ErrMalformedCredential, len(parts))
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: decode payload: %v", ErrMalformedCredential, err)
	}

	var claims AccessClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: parse payload: %v", ErrMalformedCredential, err)
	}
	if claims.SubjectID() == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrMalformedCredential)
	}

	return &claims, nil
}
