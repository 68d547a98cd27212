package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core/sysconfig"
)

type SysConfigRepository struct {
	db *sqlx.DB
}

var _ sysconfig.Repository = (*SysConfigRepository)(nil) // interface compliance check

func NewSysConfigRepository(db *sqlx.DB) *SysConfigRepository {
	return &SysConfigRepository{db: db}
}

func (repo *SysConfigRepository) Get(ctx context.Context) (sysconfig.Config, error) {
	var cfg sysconfig.Config
	err := repo.db.GetContext(ctx, &cfg,
		`SELECT allow_login, allow_admin_registration FROM system_config WHERE id = 1`)
	return cfg, errors.Wrap(err, "selecting system config")
}

// ToggleLogin flips allow_login in a single statement; the read-modify-write
// cannot interleave with a concurrent toggle.
func (repo *SysConfigRepository) ToggleLogin(ctx context.Context) (sysconfig.Config, error) {
	var cfg sysconfig.Config
	err := repo.db.GetContext(ctx, &cfg,
		`UPDATE system_config SET allow_login = NOT allow_login WHERE id = 1
		 RETURNING allow_login, allow_admin_registration`)
	return cfg, errors.Wrap(err, "toggling allow_login")
}

func (repo *SysConfigRepository) ToggleAdminRegistration(ctx context.Context) (sysconfig.Config, error) {
	var cfg sysconfig.Config
	err := repo.db.GetContext(ctx, &cfg,
		`UPDATE system_config SET allow_admin_registration = NOT allow_admin_registration WHERE id = 1
		 RETURNING allow_login, allow_admin_registration`)
	return cfg, errors.Wrap(err, "toggling allow_admin_registration")
}
