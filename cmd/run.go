package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/oj"
	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/lib/config"
	"github.com/spf13/cobra"
)

var outputArg string

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "run a script file, relative requires resolve from its directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), appConfig(), args[0], outputArg, cmd.OutOrStdout())
	},
}

func run(ctx context.Context, cfg *config.Config, path, output string, w io.Writer) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	base := baseArg
	if base == "" {
		base = filepath.Dir(path)
	}
	vm, _, err := newContext(cfg, base)
	if err != nil {
		return err
	}

	source, err := js.ReadSource(path)
	if err != nil {
		return &js.Error{Kind: js.IOError, Path: path, Message: err.Error(), Err: err}
	}

	runCtx, cancel := runContext(ctx, cfg)
	defer cancel()

	result, err := vm.RunContext(runCtx, source, path)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return writeJSON(w, result, output)
}

// writeJSON writes the value as indented JSON to w,
// or to the output file when it is not empty.
func writeJSON(w io.Writer, value any, output string) error {
	data := oj.JSON(value, &oj.Options{Indent: 2, Sort: true})
	if output == "" {
		_, err := fmt.Fprintln(w, data)
		return err
	}

	if filepath.Ext(output) == "" {
		output += ".json"
	}
	return os.WriteFile(output, []byte(data), 0o600)
}

func init() {
	runCmd.Flags().StringVarP(&outputArg, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(runCmd)
}
