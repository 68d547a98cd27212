package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/user"
)

// addUser provisions a new account with any role, including the first superadmin.
func (cli *commandLine) addUser(name, uname, email, mobile string, role user.Role, pwd string) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	if err := core.CheckSecretStrength(pwd); err != nil {
		return err
	}

	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      core.CleanString(name),
		Username:  core.CleanString(uname, true /* lower */),
		Email:     core.CleanString(email, true /* lower */),
		Mobile:    core.CleanString(mobile),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	created, err := cli.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		return err
	}
	fmt.Printf("created %s account %s (%s)\n", created.Role, created.Username, created.ID)
	return nil
}
