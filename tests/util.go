package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/user"
)

// NewConfig returns an app config suitable for tests.
func NewConfig() *core.Config {
	conf := core.NewConfig()
	conf.Debug = true
	conf.TestMode = true
	return conf
}

// CreateUser provisions an account directly in the given repository.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	role user.Role,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
