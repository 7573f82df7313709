package api

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/js/modules"
	"github.com/spf13/cast"
)

const mimeApplicationJavaScript = "application/javascript"

// Result the run response
type Result struct {
	Result any    `json:"result"`
	Output string `json:"output,omitempty"`
}

// run evaluates the request body in a new context.
// Console output is collected into the response.
func run(opt Options) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), mimeApplicationJavaScript) {
			return echo.NewHTTPError(http.StatusUnsupportedMediaType,
				"content type must be "+mimeApplicationJavaScript)
		}

		timeout := opt.Timeout
		if t := c.QueryParam("timeout"); t != "" {
			d, err := cast.ToDurationE(t)
			if err != nil || d <= 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid timeout "+t)
			}
			timeout = min(d, opt.Timeout)
		}

		body, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}

		output := new(strings.Builder)
		ctx, _, err := modules.New(opt.Module,
			js.WithLogger(opt.Logger), js.WithOutput(output, output))
		if err != nil {
			return err
		}

		runCtx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		result, err := ctx.RunContext(runCtx, string(body))
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, Result{Result: result, Output: output.String()})
	}
}
