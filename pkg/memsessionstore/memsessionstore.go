package memsessionstore

import (
	"sync"

	"github.com/weberc2/passwordreset/pkg/types"
)

// MemSessionStore keeps sessions in memory. Sessions don't survive a restart.
type MemSessionStore struct {
	lock     sync.Mutex
	sessions map[types.SessionID]types.Session
}

func (mss *MemSessionStore) Load(id types.SessionID) (*types.Session, error) {
	mss.lock.Lock()
	defer mss.lock.Unlock()
	session := mss.sessions[id]
	return &session, nil
}

func (mss *MemSessionStore) Save(id types.SessionID, s *types.Session) error {
	mss.lock.Lock()
	defer mss.lock.Unlock()
	if mss.sessions == nil {
		mss.sessions = map[types.SessionID]types.Session{}
	}
	mss.sessions[id] = *s
	return nil
}

func (mss *MemSessionStore) Clear(id types.SessionID) error {
	mss.lock.Lock()
	defer mss.lock.Unlock()
	delete(mss.sessions, id)
	return nil
}

func (mss *MemSessionStore) Len() int {
	mss.lock.Lock()
	defer mss.lock.Unlock()
	return len(mss.sessions)
}

var _ types.SessionStore = &MemSessionStore{}
