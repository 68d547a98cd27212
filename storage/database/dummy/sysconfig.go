package dummydb

import (
	"context"

	"github.com/kazlaw/shule/core/sysconfig"
)

type sysConfigRepository struct {
	db *sysConfigTable
}

var _ sysconfig.Repository = (*sysConfigRepository)(nil) // interface compliance check

func NewSysConfigRepository(db *DB) sysconfig.Repository {
	return &sysConfigRepository{db: db.sysConfig}
}

func (repo *sysConfigRepository) Get(_ context.Context) (sysconfig.Config, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return repo.db.cfg, nil
}

func (repo *sysConfigRepository) ToggleLogin(_ context.Context) (sysconfig.Config, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.cfg.AllowLogin = !repo.db.cfg.AllowLogin
	return repo.db.cfg, nil
}

func (repo *sysConfigRepository) ToggleAdminRegistration(_ context.Context) (sysconfig.Config, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.cfg.AllowAdminRegistration = !repo.db.cfg.AllowAdminRegistration
	return repo.db.cfg, nil
}
