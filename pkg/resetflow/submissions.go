package resetflow

import (
	"sync"

	"github.com/weberc2/passwordreset/pkg/types"
)

// State is the submission state of one session's form.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Submitting:
		return "Submitting"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Status is the outcome of a settled submission. `Reason` is set only when
// `State` is `Failed`.
type Status struct {
	State  State
	Reason error
}

// submissions is the re-entrancy guard shared by the flows: Idle ->
// Submitting -> Succeeded | Failed. Submitting is the only state that rejects
// a new submission. Settled outcomes are handed back to the caller and the
// session drops back to Idle, so only in-flight sessions are tracked.
type submissions struct {
	lock     sync.Mutex
	inFlight map[types.SessionID]struct{}
}

func (s *submissions) begin(id types.SessionID) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return types.ErrBusy
	}
	if s.inFlight == nil {
		s.inFlight = map[types.SessionID]struct{}{}
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *submissions) settle(id types.SessionID, err error) Status {
	s.lock.Lock()
	delete(s.inFlight, id)
	s.lock.Unlock()
	if err != nil {
		return Status{State: Failed, Reason: err}
	}
	return Status{State: Succeeded}
}

func (s *submissions) state(id types.SessionID) State {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return Submitting
	}
	return Idle
}
