package main

import (
	"context"
	"fmt"

	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/storage/database"
)

func (cli *commandLine) toggleLogin() error {
	cfg, err := cli.sysCfgRepo.ToggleLogin(context.Background())
	if err != nil {
		return err
	}
	printConfig(cfg)
	return nil
}

func (cli *commandLine) toggleRegistration() error {
	cfg, err := cli.sysCfgRepo.ToggleAdminRegistration(context.Background())
	if err != nil {
		return err
	}
	printConfig(cfg)
	return nil
}

func (cli *commandLine) migrate() error {
	return database.Migrate(cli.db)
}

func printConfig(cfg sysconfig.Config) {
	fmt.Printf("allow_login=%t allow_admin_registration=%t\n", cfg.AllowLogin, cfg.AllowAdminRegistration)
}
