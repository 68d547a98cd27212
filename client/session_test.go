package client_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kazlaw/shule/client"
	"github.com/kazlaw/shule/core/user"
)

func validSession() client.Session {
	return client.Session{
		ID:       "5a6b4b6c-4f0e-4f0c-9a4e-6a3f3a2b1c0d",
		Name:     "Jane Doe",
		Role:     user.RoleTeacher,
		Token:    "xxx.yyy.zzz",
		IssuedAt: time.Now().UTC(),
	}
}

func TestSessionCache_Load(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		wantOK bool
	}{
		{"empty slot", nil, false},
		{"corrupt json", []byte("{nope"), false},
		{"empty object", []byte("{}"), false},
		{"missing id", []byte(`{"role":"teacher","token":"t"}`), false},
		{"invalid role", []byte(`{"id":"abc","role":"principal","token":"t"}`), false},
		{"valid", []byte(`{"id":"abc","name":"Jane","role":"teacher","token":"t"}`), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &client.MemoryStorage{}
			if tt.data != nil {
				assert.NoError(t, storage.Write(tt.data))
			}
			cache := client.NewSessionCache(storage)

			s, ok := cache.Load()
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				// a broken slot and an absent one are indistinguishable
				assert.Equal(t, client.Session{}, s)
			}
		})
	}
}

func TestSessionCache_roundTrip(t *testing.T) {
	cache := client.NewSessionCache(&client.MemoryStorage{})
	want := validSession()

	assert.NoError(t, cache.Store(want))

	got, ok := cache.Load()
	assert.True(t, ok)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Role, got.Role)
	assert.Equal(t, want.Token, got.Token)
}

func TestSessionCache_StoreSetsIssuedAt(t *testing.T) {
	cache := client.NewSessionCache(&client.MemoryStorage{})
	s := validSession()
	s.IssuedAt = time.Time{}

	assert.NoError(t, cache.Store(s))

	got, ok := cache.Load()
	assert.True(t, ok)
	assert.False(t, got.IssuedAt.IsZero())
}

func TestSessionCache_Clear(t *testing.T) {
	cache := client.NewSessionCache(&client.MemoryStorage{})
	assert.NoError(t, cache.Store(validSession()))
	assert.NoError(t, cache.Clear())

	_, ok := cache.Load()
	assert.False(t, ok)

	// clearing an already-empty slot is not an error
	assert.NoError(t, cache.Clear())
}

func TestFileStorage(t *testing.T) {
	fs := &client.FileStorage{Path: filepath.Join(t.TempDir(), "shule", "session.json")}
	cache := client.NewSessionCache(fs)

	// missing file reads as absent
	_, ok := cache.Load()
	assert.False(t, ok)

	want := validSession()
	assert.NoError(t, cache.Store(want))

	// the slot is private to the user
	info, err := os.Stat(fs.Path)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, ok := cache.Load()
	assert.True(t, ok)
	assert.Equal(t, want.ID, got.ID)

	assert.NoError(t, cache.Clear())
	_, ok = cache.Load()
	assert.False(t, ok)
	assert.NoError(t, cache.Clear()) // idempotent
}
