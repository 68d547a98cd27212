package sysconfig

import "context"

// Config is the process-wide singleton gating policy. Exactly one record exists;
// every login/registration attempt reads the current value before any credential check.
type Config struct {
	AllowLogin             bool `json:"allow_login" db:"allow_login"`
	AllowAdminRegistration bool `json:"allow_admin_registration" db:"allow_admin_registration"`
}

// Default is the state the singleton is seeded with at first startup.
var Default = Config{AllowLogin: true, AllowAdminRegistration: true}

type (
	// Repository persists the singleton Config.
	// Each toggle is a single atomic read-modify-write; concurrent toggles
	// resolve as last-write-wins.
	Repository interface {
		Get(ctx context.Context) (Config, error)
		ToggleLogin(ctx context.Context) (Config, error)
		ToggleAdminRegistration(ctx context.Context) (Config, error)
	}

	ServiceInterface interface {
		Get(ctx context.Context) (Config, error)
		ToggleLogin(ctx context.Context) (Config, error)
		ToggleAdminRegistration(ctx context.Context) (Config, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the current gating policy. Side-effect free.
func (svc *Service) Get(ctx context.Context) (Config, error) {
	return svc.repo.Get(ctx)
}

// ToggleLogin flips AllowLogin and returns the new state.
// Caller authorization (superadmin only) is enforced upstream at the API layer.
func (svc *Service) ToggleLogin(ctx context.Context) (Config, error) {
	return svc.repo.ToggleLogin(ctx)
}

// ToggleAdminRegistration flips AllowAdminRegistration and returns the new state.
func (svc *Service) ToggleAdminRegistration(ctx context.Context) (Config, error) {
	return svc.repo.ToggleAdminRegistration(ctx)
}
