package client

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core/user"
)

// Session is the client's cached proof of a successful login. It is trusted
// locally until the next login or an explicit Clear; the server is never
// re-contacted to revalidate it on navigation.
type Session struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     user.Role `json:"role"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

type (
	// SessionStorage persists the raw session record at one fixed slot.
	SessionStorage interface {
		Read() ([]byte, error)
		Write(data []byte) error
		Clear() error
	}

	// FileStorage keeps the session record in a file under the user config dir.
	FileStorage struct {
		Path string
	}

	// MemoryStorage keeps the session record in memory; for tests.
	MemoryStorage struct {
		data []byte
	}
)

var (
	_ SessionStorage = (*FileStorage)(nil)
	_ SessionStorage = (*MemoryStorage)(nil)
)

func NewFileStorage() (*FileStorage, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "resolving user config dir")
	}
	return &FileStorage{Path: filepath.Join(dir, "shule", "session.json")}, nil
}

func (fs *FileStorage) Read() ([]byte, error) {
	return ioutil.ReadFile(fs.Path)
}

func (fs *FileStorage) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fs.Path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(ioutil.WriteFile(fs.Path, data, 0o600), "writing session slot")
}

func (fs *FileStorage) Clear() error {
	if err := os.Remove(fs.Path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "clearing session slot")
	}
	return nil
}

func (ms *MemoryStorage) Read() ([]byte, error) {
	if ms.data == nil {
		return nil, os.ErrNotExist
	}
	return ms.data, nil
}

func (ms *MemoryStorage) Write(data []byte) error {
	ms.data = data
	return nil
}

func (ms *MemoryStorage) Clear() error {
	ms.data = nil
	return nil
}

// SessionCache is the durable-across-navigation store of the most recently
// issued session; the sole input to routing decisions.
type SessionCache struct {
	storage SessionStorage
}

func NewSessionCache(storage SessionStorage) *SessionCache {
	return &SessionCache{storage: storage}
}

func (c *SessionCache) Store(s Session) error {
	if s.IssuedAt.IsZero() {
		s.IssuedAt = time.Now().UTC()
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	return c.storage.Write(data)
}

// Load never fails. A missing, unreadable, corrupt or role-less slot is
// reported as absent: from a security standpoint "no session" and "broken
// session" must be indistinguishable, and both deny access downstream.
func (c *SessionCache) Load() (Session, bool) {
	data, err := c.storage.Read()
	if err != nil {
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, false
	}
	if s.ID == "" || !s.Role.Valid() {
		return Session{}, false
	}
	return s, true
}

func (c *SessionCache) Clear() error {
	return c.storage.Clear()
}
