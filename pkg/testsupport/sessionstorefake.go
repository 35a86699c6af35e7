package testsupport

import "github.com/weberc2/passwordreset/pkg/types"

// SessionStoreFake is a map-backed `types.SessionStore`. It is not safe for
// concurrent use; tests that need that use `memsessionstore`.
type SessionStoreFake map[types.SessionID]types.Session

func (ssf SessionStoreFake) Load(id types.SessionID) (*types.Session, error) {
	session := ssf[id]
	return &session, nil
}

func (ssf SessionStoreFake) Save(id types.SessionID, s *types.Session) error {
	ssf[id] = *s
	return nil
}

func (ssf SessionStoreFake) Clear(id types.SessionID) error {
	delete(ssf, id)
	return nil
}

// SessionStoreErr fails every operation with `Err`.
type SessionStoreErr struct{ Err error }

func (sse SessionStoreErr) Load(types.SessionID) (*types.Session, error) {
	return nil, sse.Err
}

func (sse SessionStoreErr) Save(types.SessionID, *types.Session) error {
	return sse.Err
}

func (sse SessionStoreErr) Clear(types.SessionID) error { return sse.Err }

// ClearFails behaves like its `SessionStoreFake` except that `Clear` fails
// with `Err`.
type ClearFails struct {
	SessionStoreFake
	Err error
}

func (cf ClearFails) Clear(types.SessionID) error { return cf.Err }

var (
	_ types.SessionStore = SessionStoreFake{}
	_ types.SessionStore = SessionStoreErr{}
	_ types.SessionStore = ClearFails{}
)
