package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/user"
)

// error kind codes surfaced to clients
const (
	codeLoginDisabled        = "login_disabled"
	codeInvalidCredentials   = "invalid_credentials"
	codeRegistrationDisabled = "registration_disabled"
	codeValidationFailed     = "validation_failed"
	codeDuplicateAccount     = "duplicate_account"
	codeUnauthorized         = "unauthorized"
)

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden      = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errTokenSigningFailed = errors.New("failed to sign token")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that maps domain
// error kinds to distinct {code, error} responses so clients can present a precise
// message. signalShutdown is called whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = echo.Map{"code": codeUnauthorized, "error": origErr.Message}
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
			if code == http.StatusForbidden || code == http.StatusUnauthorized {
				message = echo.Map{"code": codeUnauthorized, "error": origErr.Message}
			}
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = echo.Map{"code": codeValidationFailed, "fields": fldErrs}
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = echo.Map{"code": codeValidationFailed, "fields": fldErrs}
			} else {
				message = echo.Map{"code": codeValidationFailed, "error": origErr.Error()}
			}
			code = http.StatusBadRequest
		default:
			switch origErr {
			case user.ErrLoginDisabled:
				code = http.StatusForbidden
				message = echo.Map{"code": codeLoginDisabled, "error": origErr.Error()}
			case user.ErrInvalidCredentials:
				// uniform message whether the pair is unknown or the secret is wrong
				code = http.StatusBadRequest
				message = echo.Map{"code": codeInvalidCredentials, "error": origErr.Error()}
			case user.ErrRegistrationDisabled:
				code = http.StatusForbidden
				message = echo.Map{"code": codeRegistrationDisabled, "error": origErr.Error()}
			case user.ErrDuplicateAccount:
				code = http.StatusConflict
				message = echo.Map{"code": codeDuplicateAccount, "error": origErr.Error()}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = echo.Map{"error": msg}

				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
