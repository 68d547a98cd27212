package client_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/kazlaw/shule/apps/api/echo"
	"github.com/kazlaw/shule/client"
	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
	emailsvc "github.com/kazlaw/shule/services/email"
	dummydb "github.com/kazlaw/shule/storage/database/dummy"
	"github.com/kazlaw/shule/tests"
)

const strongSecret = "LeSecret207!"

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type testEnv struct {
	api     *httptest.Server
	client  *client.Client
	cache   *client.SessionCache
	usrRepo user.Repository
}

func setupAPI(t *testing.T) testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setupAPI() failed: %v", err)
	}
	conf := testutil.NewConfig()
	validate, translator := core.NewValidate()

	usrRepo := dummydb.NewUserRepository(db)
	sysCfgSvc := sysconfig.NewService(dummydb.NewSysConfigRepository(db))
	usrSvc := user.NewService(conf, usrRepo, sysCfgSvc, emailsvc.NewConsoleServiceMock(conf), validate)

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:         conf,
		Logger:       nopLogger{},
		UserSvc:      usrSvc,
		SysConfigSvc: sysCfgSvc,
		Validate:     validate,
		Translator:   translator,
	})
	api := httptest.NewServer(srv)
	t.Cleanup(api.Close)

	cache := client.NewSessionCache(&client.MemoryStorage{})
	return testEnv{
		api:     api,
		client:  client.New(api.URL, cache),
		cache:   cache,
		usrRepo: usrRepo,
	}
}

func TestClient_Login(t *testing.T) {
	env := setupAPI(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, env.usrRepo, "Jane Doe", "jane", "jane@test.cd", strongSecret, user.RoleTeacher)

	t.Run("success caches the session", func(t *testing.T) {
		s, err := env.client.Login(ctx, "jane", strongSecret, user.RoleTeacher)
		assert.NoError(t, err)
		assert.Equal(t, usr.ID, s.ID)
		assert.Equal(t, user.RoleTeacher, s.Role)
		assert.NotEmpty(t, s.Token)
		assert.False(t, s.IssuedAt.IsZero())

		cached, ok := env.cache.Load()
		assert.True(t, ok)
		assert.Equal(t, s.ID, cached.ID)
		assert.Equal(t, s.Token, cached.Token)
	})

	t.Run("failure leaves the cache untouched", func(t *testing.T) {
		before, beforeOK := env.cache.Load()

		_, err := env.client.Login(ctx, "jane", "NotTheSecret1!", user.RoleTeacher)
		apiErr, ok := err.(*client.APIError)
		assert.True(t, ok, "expected *client.APIError, got %T", err)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "invalid_credentials", apiErr.Code)

		after, afterOK := env.cache.Load()
		assert.Equal(t, beforeOK, afterOK)
		assert.Equal(t, before, after)
	})

	t.Run("logout clears the cache", func(t *testing.T) {
		assert.NoError(t, env.client.Logout())
		_, ok := env.cache.Load()
		assert.False(t, ok)
	})
}

func TestClient_Register(t *testing.T) {
	env := setupAPI(t)
	ctx := context.Background()

	err := env.client.Register(ctx, client.Registration{
		Name:          "Awa Mwangi",
		Email:         "awa@test.cd",
		Mobile:        "+243123456789",
		Secret:        strongSecret,
		SecretConfirm: strongSecret,
	})
	assert.NoError(t, err)

	// no session is issued on registration
	_, ok := env.cache.Load()
	assert.False(t, ok)

	// the new admin logs in like everyone else
	s, err := env.client.Login(ctx, "awa@test.cd", strongSecret, user.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, s.Role)
	assert.Equal(t, "/admin/dashboard", client.LandingPath(s.Role))
}

func TestClient_SysConfigToggles(t *testing.T) {
	env := setupAPI(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.usrRepo, "Sue Per", "sue", "sue@test.cd", strongSecret, user.RoleSuperAdmin)
	testutil.CreateUser(t, env.usrRepo, "Jane Doe", "jane", "jane@test.cd", strongSecret, user.RoleTeacher)

	cfg, err := env.client.SysConfig(ctx)
	assert.NoError(t, err)
	assert.True(t, cfg.AllowLogin)
	assert.True(t, cfg.AllowAdminRegistration)

	t.Run("teacher session is refused", func(t *testing.T) {
		_, err := env.client.Login(ctx, "jane", strongSecret, user.RoleTeacher)
		assert.NoError(t, err)

		_, err = env.client.ToggleLogin(ctx)
		apiErr, ok := err.(*client.APIError)
		assert.True(t, ok, "expected *client.APIError, got %T", err)
		assert.Equal(t, "unauthorized", apiErr.Code)
	})

	t.Run("superadmin session toggles", func(t *testing.T) {
		_, err := env.client.Login(ctx, "sue", strongSecret, user.RoleSuperAdmin)
		assert.NoError(t, err)

		cfg, err := env.client.ToggleRegistration(ctx)
		assert.NoError(t, err)
		assert.False(t, cfg.AllowAdminRegistration)

		cfg, err = env.client.ToggleRegistration(ctx)
		assert.NoError(t, err)
		assert.True(t, cfg.AllowAdminRegistration)
	})
}

// A server-side policy change does not invalidate an already-cached session:
// the session is trusted locally until the next login or an explicit clear,
// and guarded navigation never re-contacts the server.
func TestClient_cachedSessionSurvivesGateClose(t *testing.T) {
	env := setupAPI(t)
	ctx := context.Background()
	testutil.CreateUser(t, env.usrRepo, "Sue Per", "sue", "sue@test.cd", strongSecret, user.RoleSuperAdmin)
	testutil.CreateUser(t, env.usrRepo, "Jane Doe", "jane", "jane@test.cd", strongSecret, user.RoleTeacher)

	// jane logs in and lands on her portal
	janeCache := client.NewSessionCache(&client.MemoryStorage{})
	jane := client.New(env.api.URL, janeCache)
	s, err := jane.Login(ctx, "jane", strongSecret, user.RoleTeacher)
	assert.NoError(t, err)
	assert.Equal(t, client.Admit, client.GuardPath(s, true, "/teacher/classes"))

	// the superadmin closes the login gate
	_, err = env.client.Login(ctx, "sue", strongSecret, user.RoleSuperAdmin)
	assert.NoError(t, err)
	cfg, err := env.client.ToggleLogin(ctx)
	assert.NoError(t, err)
	assert.False(t, cfg.AllowLogin)

	// jane's cached session still admits her
	s, ok := janeCache.Load()
	assert.True(t, ok)
	assert.Equal(t, client.Admit, client.GuardPath(s, ok, "/teacher/classes"))

	// but a fresh login is refused
	_, err = jane.Login(ctx, "jane", strongSecret, user.RoleTeacher)
	apiErr, isAPIErr := err.(*client.APIError)
	assert.True(t, isAPIErr, "expected *client.APIError, got %T", err)
	assert.Equal(t, "login_disabled", apiErr.Code)

	// and once jane logs out, the stale session is gone for good
	assert.NoError(t, jane.Logout())
	s, ok = janeCache.Load()
	assert.Equal(t, client.RedirectLogin, client.GuardPath(s, ok, "/teacher/classes"))
}
