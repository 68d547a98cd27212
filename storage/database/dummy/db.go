package dummydb

import (
	"sync"

	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
)

type (
	// DB is an in-memory database used by tests and the dev loop.
	DB struct {
		user      *userTable
		sysConfig *sysConfigTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User // keyed by ID
	}

	sysConfigTable struct {
		sync.Mutex
		cfg sysconfig.Config
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:      &userTable{table: make(map[string]*user.User)},
		sysConfig: &sysConfigTable{cfg: sysconfig.Default},
	}
	return db, nil
}
