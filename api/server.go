// Package api the http evaluation service
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/js/modules"
)

const (
	// DefaultTimeout the default timeout
	DefaultTimeout = time.Minute
	// DefaultAddress the api default address
	DefaultAddress = "localhost:8080"
)

// Options the api server configuration
type Options struct {
	Logger  *slog.Logger  `yaml:"-"`
	Token   string        `yaml:"token"`
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`

	// Module the module system of each request context
	Module modules.Options `yaml:"-"`
}

// Server the api service
func Server(opt Options) *echo.Echo {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	e := echo.New()
	e.HTTPErrorHandler = errorHandler(opt.Logger)
	e.HideBanner = true
	e.HidePort = true
	e.Use(loggerMiddleware(opt))
	e.Any("/ping", ping)
	e.Any("", ping)

	v1 := e.Group("/v1", authMiddleware(opt))
	v1.POST("/run", run(opt))
	return e
}

// Msg the error response
type Msg struct {
	Msg  string `json:"msg"`
	Kind string `json:"kind,omitempty"`
}

func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := Msg{Msg: err.Error()}

		var (
			he *echo.HTTPError
			je *js.Error
		)
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg.Msg = http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				msg.Msg = m
			}
		case errors.As(err, &je):
			code = statusOf(je.Kind)
			msg.Kind = je.Kind.String()
		}

		if code >= http.StatusInternalServerError {
			log.Error("request error", "uri", c.Request().RequestURI, "error", err)
		}

		if err = c.JSON(code, msg); err != nil {
			log.Error("write response error", "error", err)
		}
	}
}

// statusOf the http status of the error kind.
func statusOf(kind js.ErrorKind) int {
	switch kind {
	case js.Interrupted:
		return http.StatusGatewayTimeout
	case js.IOError:
		return http.StatusInternalServerError
	case js.ModuleNotFound, js.InvalidModule:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func ping(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}
