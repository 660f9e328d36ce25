package auth

// Identity is the caller established from a verified token. UserID is the
// opaque subject issued by the identity provider. Role is a hint only;
// authorization decisions read the stored profile.
type Identity struct {
	UserID string
	Email  string
	Role   string
}
