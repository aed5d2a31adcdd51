package credential

// Operation names an action the guard can authorize.
type Operation string

const (
	OpRead   Operation = "read"
	OpEdit   Operation = "edit"
	OpDelete Operation = "delete"
	OpShare  Operation = "share"
	OpRevoke Operation = "revoke"
)

// Guard decides whether a user may act on a credential. The owner may do
// anything; a grantee is a shared editor (read and edit, nothing else);
// everyone else is denied without learning whether the credential exists.
type Guard struct{}

func NewGuard() Guard {
	return Guard{}
}

func (Guard) CanRead(c *Credential, userID string) bool {
	if c == nil {
		return false
	}
	return c.IsOwner(userID) || c.IsSharedWith(userID)
}

func (Guard) CanWrite(c *Credential, userID string) bool {
	if c == nil {
		return false
	}
	return c.IsOwner(userID) || c.IsSharedWith(userID)
}

// Authorize returns nil when the operation is allowed and ErrAccessDenied
// otherwise. A nil credential is denied like any other failure.
func (g Guard) Authorize(op Operation, c *Credential, userID string) error {
	if c == nil {
		return ErrAccessDenied
	}

	if c.IsOwner(userID) {
		return nil
	}

	switch op {
	case OpRead, OpEdit:
		if c.IsSharedWith(userID) {
			return nil
		}
	}

	return ErrAccessDenied
}
