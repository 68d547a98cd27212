package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
)

const shutdownTimeout = 5 * time.Second

type (
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		UserSvc      user.ServiceInterface
		SysConfigSvc sysconfig.ServiceInterface
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerUserAPI(v1, jwt, s.deps)
	registerSysConfigAPI(v1, jwt, s.deps)
}

// signalShutdown triggers a graceful shutdown, used when a fatal error is caught.
func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

// Start runs the server until it fails or an interrupt/shutdown signal arrives,
// then drains in-flight requests before returning.
func (s *Server) Start() error {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.app.Start(s.deps.Conf.ServerAddress())
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")
	case sig := <-s.shutdown:
		s.deps.Logger.Info("shutdown started", sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.app.Shutdown(ctx); err != nil {
			_ = s.app.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}
