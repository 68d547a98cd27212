package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
	emailsvc "github.com/kazlaw/shule/services/email"
	dummydb "github.com/kazlaw/shule/storage/database/dummy"
	"github.com/kazlaw/shule/tests"
)

type testServer struct {
	srv       *Server
	conf      *core.Config
	usrRepo   user.Repository
	sysCfgSvc sysconfig.ServiceInterface
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestServer() failed: %v", err)
	}
	conf := testutil.NewConfig()
	validate, translator := core.NewValidate()

	usrRepo := dummydb.NewUserRepository(db)
	sysCfgSvc := sysconfig.NewService(dummydb.NewSysConfigRepository(db))
	usrSvc := user.NewService(conf, usrRepo, sysCfgSvc, emailsvc.NewConsoleServiceMock(conf), validate)

	srv := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       testLogger{},
		UserSvc:      usrSvc,
		SysConfigSvc: sysCfgSvc,
		Validate:     validate,
		Translator:   translator,
	})
	return testServer{srv: srv, conf: conf, usrRepo: usrRepo, sysCfgSvc: sysCfgSvc}
}

func (ts testServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			t.Fatalf("request() failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func (ts testServer) tokenFor(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(ts.conf, GetUserClaims(ts.conf, usr))
	if err != nil {
		t.Fatalf("tokenFor() failed: %v", err)
	}
	return token
}

// jsonBytesEqual asserts that two JSON documents are semantically equal.
func jsonBytesEqual(t *testing.T, want, got []byte) {
	t.Helper()

	var wantV, gotV interface{}
	if err := json.Unmarshal(want, &wantV); err != nil {
		t.Fatalf("jsonBytesEqual() failed: %v", err)
	}
	if err := json.Unmarshal(got, &gotV); err != nil {
		t.Fatalf("jsonBytesEqual() failed: %v", err)
	}
	assert.Equal(t, wantV, gotV)
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()

	assert.Equal(t, wantStatus, rec.Code)

	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("assertErrorCode() failed: %v", err)
	}
	assert.Equal(t, wantCode, body.Code)
}

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

const strongSecret = "LeSecret207!"

func (ts testServer) createUser(t *testing.T, name, uname string, role user.Role) user.User {
	t.Helper()
	return testutil.CreateUser(t, ts.usrRepo, name, uname, uname+"@test.cd", strongSecret, role)
}
