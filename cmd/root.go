package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shiroyk/jsrt/js"
	"github.com/shiroyk/jsrt/js/modules"
	"github.com/shiroyk/jsrt/lib/config"
	"github.com/shiroyk/jsrt/lib/logger"
	"github.com/spf13/cobra"
)

var (
	configArg  string
	baseArg    string
	debugArg   bool
	timeoutArg time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "jsrt",
	Short:        "jsrt is a JavaScript runtime with CommonJS modules.",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configArg, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&baseArg, "base", "", "module base directory")
	rootCmd.PersistentFlags().BoolVar(&debugArg, "debug", false, "output the debug log")
	rootCmd.PersistentFlags().DurationVar(&timeoutArg, "timeout", 0, "script run timeout")
}

func initConfig() {
	initLogger(debugArg)

	cfg, err := config.ReadConfig(configArg)
	if err != nil {
		slog.Error("error reading config file", "error", err)
		cfg = config.DefaultConfig()
	}
	if baseArg != "" {
		cfg.Module.Base = baseArg
	}
	if timeoutArg > 0 {
		cfg.Timeout = timeoutArg
	}
	rootCmd.SetContext(config.NewContext(context.Background(), cfg))
}

func initLogger(debug bool) {
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	if debug {
		handler = logger.NewConsoleHandler(os.Stderr, slog.LevelDebug)
	}
	slog.SetDefault(slog.New(handler))
}

// appConfig the configuration loaded by initConfig.
func appConfig() *config.Config {
	return config.FromContext(rootCmd.Context())
}

// newContext creates the js.Context of the configuration,
// a non-empty base overrides the configured one.
func newContext(cfg *config.Config, base string, opts ...js.Option) (*js.Context, *modules.Require, error) {
	opt := cfg.Module
	if base != "" {
		opt.Base = base
	}
	opts = append(opts, js.WithLogger(slog.Default()))
	if !cfg.Console {
		opts = append(opts, js.WithoutConsole())
	}
	return modules.New(opt, opts...)
}

// runContext the context canceled after the configured timeout.
func runContext(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if cfg.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, cfg.Timeout)
}
