package domain

// CredentialPair holds the bearer credentials issued by the platform. The
// pair is owned exclusively by the session store: both values are present or
// both are absent, and replacement is always whole-pair.
type CredentialPair struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// Complete reports whether both credentials are set.
func (p CredentialPair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// Empty reports whether neither credential is set.
func (p CredentialPair) Empty() bool {
	return p.Access == "" && p.Refresh == ""
}

// SessionState enumerates the login state machine. Anonymous is both the
// initial and the terminal-like state.
type SessionState string

const (
	SessionAnonymous      SessionState = "anonymous"
	SessionAuthenticating SessionState = "authenticating"
	SessionAuthenticated  SessionState = "authenticated"
)
