// Package cli implements the cart command line client.
package cli

import (
	"context"
	"fmt"
	"io"

	"taste-haven/internal/cart"
	"taste-haven/internal/client"
	"taste-haven/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every subcommand once configuration is loaded.
type app struct {
	cfg    *Config
	logger zerolog.Logger
	api    *client.Client
	store  *cart.Store
	out    io.Writer
}

// NewRootCommand builds the cart command tree. Output goes to out and logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	var cfgFile string
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "cart",
		Short:         "Browse the Taste Haven menu and place orders",
		Long:          `cart keeps a shopping cart on disk (optionally mirrored to S3) and talks to the Taste Haven API to browse the menu and check out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(viper.New(), cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = config.NewLoggerTo(errOut, config.LoggerConfig{Level: cfg.LogLevel, Format: "console"}).
				With().Str("app", "cart").Logger()
			a.api = client.New(cfg.APIURL, nil, a.logger)
			a.store = openStore(cmd.Context(), cfg.Cart, a.logger)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.taste-haven.yaml)")

	root.AddCommand(
		newMenuCommand(a),
		newAddCommand(a),
		newRemoveCommand(a),
		newSetCommand(a),
		newShowCommand(a),
		newClearCommand(a),
		newCheckoutCommand(a),
		newOrderCommand(a),
	)

	return root
}

// openStore persists the cart under cfg.Dir and, when enabled, mirrors it to S3.
// If the S3 client cannot be created the cart stays local.
func openStore(ctx context.Context, cfg CartConfig, logger zerolog.Logger) *cart.Store {
	local := cart.NewFileSlot(cfg.Dir, logger)
	if !cfg.S3.Enabled {
		return cart.NewStore(local, logger)
	}

	remote, err := cart.NewS3Slot(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().Err(err).Str("bucket", cfg.S3.Bucket).Msg("S3 cart mirror disabled")
		return cart.NewStore(local, logger)
	}

	return cart.NewStore(cart.NewFallbackSlot(remote, local, true, logger), logger)
}

func (a *app) session(ctx context.Context) *cart.Session {
	return cart.OpenSession(ctx, a.store)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
