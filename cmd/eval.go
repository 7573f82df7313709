package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/shiroyk/jsrt/lib/config"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <code>",
	Short: "evaluate the code and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return eval(cmd.Context(), appConfig(), strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func eval(ctx context.Context, cfg *config.Config, code string, w io.Writer) error {
	vm, _, err := newContext(cfg, baseArg)
	if err != nil {
		return err
	}

	runCtx, cancel := runContext(ctx, cfg)
	defer cancel()

	result, err := vm.RunContext(runCtx, code)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, formatValue(result))
	return err
}

// formatValue formats scalars as is, other values as JSON.
func formatValue(value any) string {
	switch value.(type) {
	case nil:
		return "undefined"
	case map[string]any, []any:
		return oj.JSON(value, &oj.Options{Sort: true})
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return oj.JSON(value)
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
