package port

import (
	"context"

	"github.com/arklim/selfstudy-web/internal/core/domain"
)

// TokenExchanger covers the unauthenticated credential endpoints of the
// platform.
type TokenExchanger interface {
	// ObtainToken exchanges email and password for a credential pair.
	ObtainToken(ctx context.Context, email, password string) (domain.CredentialPair, error)
	// RefreshToken exchanges the refresh credential for a new access
	// credential.
	RefreshToken(ctx context.Context, refresh string) (string, error)
}
