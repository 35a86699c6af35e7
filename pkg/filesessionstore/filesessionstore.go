// Package filesessionstore persists sessions as YAML files, one per session,
// so a reset can be continued across separate invocations of a program.
package filesessionstore

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/weberc2/passwordreset/pkg/types"
	"gopkg.in/yaml.v2"
)

var ErrInvalidSessionID = errors.New("invalid session id")

type FileSessionStore struct {
	// Directory holds one `<session-id>.yaml` file per session. It is created
	// on the first save.
	Directory string

	lock sync.Mutex
}

func (fss *FileSessionStore) Load(id types.SessionID) (*types.Session, error) {
	path, err := fss.path(id)
	if err != nil {
		return nil, err
	}

	fss.lock.Lock()
	defer fss.lock.Unlock()

	var session types.Session
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &session, nil
		}
		return nil, fmt.Errorf("loading session `%s`: %w", id, err)
	}
	if err := yaml.UnmarshalStrict(data, &session); err != nil {
		return nil, fmt.Errorf("loading session `%s`: %w", id, err)
	}
	return &session, nil
}

// Save writes the session to a temporary file and renames it into place so a
// crash never leaves a half-written session behind.
func (fss *FileSessionStore) Save(id types.SessionID, s *types.Session) error {
	path, err := fss.path(id)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("saving session `%s`: marshaling: %w", id, err)
	}

	fss.lock.Lock()
	defer fss.lock.Unlock()

	if err := os.MkdirAll(fss.Directory, 0700); err != nil {
		return fmt.Errorf("saving session `%s`: %w", id, err)
	}
	tmp, err := ioutil.TempFile(fss.Directory, ".session-*")
	if err != nil {
		return fmt.Errorf("saving session `%s`: %w", id, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("saving session `%s`: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving session `%s`: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving session `%s`: %w", id, err)
	}
	return nil
}

func (fss *FileSessionStore) Clear(id types.SessionID) error {
	path, err := fss.path(id)
	if err != nil {
		return err
	}

	fss.lock.Lock()
	defer fss.lock.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session `%s`: %w", id, err)
	}
	return nil
}

func (fss *FileSessionStore) path(id types.SessionID) (string, error) {
	if id == "" || strings.ContainsAny(string(id), `/\`) || id[0] == '.' {
		return "", fmt.Errorf("%w: `%s`", ErrInvalidSessionID, id)
	}
	return filepath.Join(fss.Directory, string(id)+".yaml"), nil
}

var _ types.SessionStore = &FileSessionStore{}
