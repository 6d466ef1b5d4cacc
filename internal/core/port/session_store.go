package port

// SessionStore owns the persisted credential pair. Writes replace the whole
// pair; a half-written pair must never be observable. Implementations fail
// closed: when the backing storage is unreadable, Authenticated reports
// false.
type SessionStore interface {
	// Set persists both credentials atomically, overwriting any prior pair.
	Set(access, refresh string) error
	// Access returns the stored access credential, if present.
	Access() (string, bool)
	// Refresh returns the stored refresh credential, if present.
	Refresh() (string, bool)
	// Clear removes both credentials. Idempotent.
	Clear() error
	// Authenticated reports whether an access credential is present. It does
	// not validate signature or expiry; a stale credential surfaces as an
	// upstream 401.
	Authenticated() bool
}
