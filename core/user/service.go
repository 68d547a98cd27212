package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/sysconfig"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrLoginDisabled        = errors.New("logins are currently disabled")
	ErrRegistrationDisabled = errors.New("admin registration is currently disabled")
	ErrDuplicateAccount     = errors.New("an account with this username and role already exists")
)

type (
	// Repository is the credential store: a persisted mapping from
	// (username, role) to an account record. Creates are insert-only;
	// a duplicate (username, role) pair must fail with ErrDuplicateAccount.
	Repository interface {
		GetUser(ctx context.Context, username string, role Role) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
	}

	ServiceInterface interface {
		Authenticate(ctx context.Context, username string, role Role, secret string) (User, error)
		RegisterAdmin(ctx context.Context, na NewAdmin) (User, error)
		Create(ctx context.Context, nu NewUser) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
	}

	Service struct {
		conf     *core.Config
		repo     Repository
		gate     sysconfig.ServiceInterface
		mailSvc  core.EmailService
		validate *validator.Validate
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(
	conf *core.Config,
	repo Repository,
	gate sysconfig.ServiceInterface,
	mailSvc core.EmailService,
	validate *validator.Validate,
) *Service {
	return &Service{
		conf:     conf,
		repo:     repo,
		gate:     gate,
		mailSvc:  mailSvc,
		validate: validate,
	}
}

// Authenticate validates the submitted credentials against the claimed role.
// The gating policy is read before the credential store is consulted; a disabled
// login fails fast with ErrLoginDisabled regardless of credential validity.
// An unknown (username, role) pair and a wrong secret are indistinguishable:
// both fail with ErrInvalidCredentials.
func (svc *Service) Authenticate(ctx context.Context, username string, role Role, secret string) (User, error) {
	cfg, err := svc.gate.Get(ctx)
	if err != nil {
		return User{}, errors.Wrap(err, "reading system config")
	}
	if !cfg.AllowLogin {
		return User{}, ErrLoginDisabled
	}

	username = core.CleanString(username, true /* lower */)
	usr, err := svc.repo.GetUser(ctx, username, role)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by username and role")
	}
	if err := usr.CheckPassword(secret); err != nil {
		return User{}, ErrInvalidCredentials
	}

	// the stored role is authoritative; usr.Role comes from the store, never the caller
	usr, err = svc.repo.SetLastLogin(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "setting lastLogin")
	}
	return usr, nil
}

// RegisterAdmin self-registers a new admin account. The gating policy is read
// first; field validation runs next; the created account's role is fixed to
// admin. No session or token is issued: the new admin must subsequently log in.
func (svc *Service) RegisterAdmin(ctx context.Context, na NewAdmin) (User, error) {
	cfg, err := svc.gate.Get(ctx)
	if err != nil {
		return User{}, errors.Wrap(err, "reading system config")
	}
	if !cfg.AllowAdminRegistration {
		return User{}, ErrRegistrationDisabled
	}

	if err := na.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr, err := svc.create(ctx, User{
		Name:     na.Name,
		Username: na.Email, // admins sign in with their email address
		Email:    na.Email,
		Mobile:   na.Mobile,
		Role:     RoleAdmin,
	}, na.Secret)
	if err != nil {
		return User{}, err
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Create provisions a new account with any role. Caller authorization
// (which operator may provision which role) is enforced at the API layer.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	return svc.create(ctx, User{
		Name:     nu.Name,
		Username: nu.Username,
		Email:    nu.Email,
		Mobile:   nu.Mobile,
		Role:     nu.Role,
	}, nu.Secret)
}

// create performs the single credential-store insert. It is the only write on
// the registration path: an abandoned request leaves no partial state behind.
func (svc *Service) create(ctx context.Context, usr User, secret string) (User, error) {
	now := time.Now().UTC()
	usr.ID = uuid.New().String()
	usr.CreatedAt = now
	usr.UpdatedAt = now
	if err := usr.SetPassword(secret); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	created, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrDuplicateAccount {
			return User{}, ErrDuplicateAccount
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return created, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome aboard!",
		BodyStr: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour administrator account has been created. "+
				"You can now sign in to the admin portal at %s/login with your email address.\r\n",
			usr.Name, svc.conf.FrontendBaseURL,
		),
	})
}
