package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/shiroyk/jsrt/api"
	"github.com/shiroyk/jsrt/lib/utils"
	"github.com/spf13/cobra"
)

var addressArg string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the http evaluation api",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := appConfig()
		opt := cfg.API
		opt.Logger = slog.Default()
		opt.Address = utils.ZeroOr(addressArg, utils.ZeroOr(opt.Address, api.DefaultAddress))
		opt.Module = cfg.Module
		if baseArg != "" {
			opt.Module.Base = baseArg
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		e := api.Server(opt)
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdown); err != nil {
				slog.Error("api shutdown", "error", err)
			}
		}()

		cmd.Printf("jsrt api listening on %s\n", opt.Address)
		if err := e.Start(opt.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&addressArg, "address", "a", "", "api listen address")
	rootCmd.AddCommand(serveCmd)
}
