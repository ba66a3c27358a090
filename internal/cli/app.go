package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/timmy/arbitrage/internal/config"
	"github.com/timmy/arbitrage/internal/controller"
	"github.com/timmy/arbitrage/internal/gateway"
	"github.com/timmy/arbitrage/internal/logger"
	"github.com/timmy/arbitrage/internal/notify"
)

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	ctl    *controller.Controller
	out    io.Writer
	// errOut receives notifications and hints, keeping out clean for piping.
	errOut io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(&logger.Config{
		Level:       level,
		Format:      "text",
		Output:      cmd.ErrOrStderr(),
		ServiceName: "analyzer",
	})
	logger.SetDefaultLogger(log)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	sinks := notify.Multi{notify.NewTerminal(cmd.ErrOrStderr(), noColor || isJSON())}
	if verbose {
		sinks = append(sinks, notify.Log{Logger: log})
	}

	ctl := controller.New(controller.Options{
		Gateway: gateway.New(&gateway.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			APIKey:  cfg.API.APIKey,
		}),
		Notifier:        sinks,
		PollInterval:    cfg.Poll.Interval,
		DefaultQuantity: cfg.ItemCheck.DefaultQuantity,
		Logger:          log,
	})

	return &app{cfg: cfg, log: log, ctl: ctl, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}, nil
}

func (a *app) Close() {
	a.ctl.Close()
}

// context attaches the app logger to the command context.
func (a *app) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return a.log.WithContext(ctx)
}

// withApp wraps a command body with app setup and teardown.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}
