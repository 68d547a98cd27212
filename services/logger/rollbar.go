// Package logsvc adapts third-party error trackers to core.Logger.
package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/user"
)

// RollbarLogger ships every entry to Rollbar and tees it to a standard logger
// so the local console stays useful in dev. Passing a user.User among the args
// tags the Rollbar item with the acting account.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// Enable turns Rollbar reporting on or off; disabled in DEV|TEST mode.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// tagActor pins the first user.User found in args as the Rollbar person and
// strips all User values from the forwarded args. args may otherwise carry an
// error and free-form context values.
func (l RollbarLogger) tagActor(msg string, args []interface{}) []interface{} {
	var tagged bool
	fwd := make([]interface{}, 0, len(args)+1)
	fwd = append(fwd, msg)
	for _, arg := range args {
		usr, ok := arg.(user.User)
		if !ok {
			fwd = append(fwd, arg)
			continue
		}
		if !tagged {
			rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
			tagged = true
		}
	}
	if !tagged {
		// a stale person must not leak onto unrelated items
		rollbar.ClearPerson()
	}
	return fwd
}

func (l RollbarLogger) tee(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.tagActor(msg, args)...)
	l.tee(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.tagActor(msg, args)...)
	l.tee(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.tagActor(msg, args)...)
	l.tee(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.tagActor(msg, args)...)
	l.tee(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.tagActor(msg, args)...)
	l.tee(msg, args)
	l.std.Fatal(msg)
}
