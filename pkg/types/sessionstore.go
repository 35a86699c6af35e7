package types

// SessionStore persists reset sessions. Implementations must treat an unknown
// ID as an empty session: `Load` returns `&Session{}` and a `nil` error, and
// `Clear` of an unknown ID is a no-op.
type SessionStore interface {
	Load(SessionID) (*Session, error)
	Save(SessionID, *Session) error
	Clear(SessionID) error
}
