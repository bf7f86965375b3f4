package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"audioctl/internal/config"
	applog "audioctl/internal/log"
	"audioctl/internal/transport"
	"audioctl/internal/tui"
)

func (a *app) serveCommand() *cobra.Command {
	var kind, address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Publish endpoint snapshots periodically over a transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub := a.cfg.Publish
			if kind != "" {
				pub.Transport = kind
			}
			if address != "" {
				pub.Address = address
			}

			t, err := transport.Open(pub.Transport, pub.Address, pub.Path)
			if err != nil {
				return err
			}
			flow := a.cfg.DataFlow()
			publisher, err := transport.NewPublisher(pub.Interval, t, func() (any, error) {
				return a.dir.Snapshot(flow)
			})
			if err != nil {
				t.Close()
				return err
			}

			applog.Infof("serve: publishing %s snapshots via %s every %s", flow, pub.Transport, pub.Interval)
			publisher.Start()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if path := config.ResolvePath(a.configPath); path != "" {
				go func() {
					if err := config.Watch(ctx, path, applyLogging); err != nil {
						applog.Warnf("serve: config reload disabled: %v", err)
					}
				}()
			}
			<-ctx.Done()

			applog.Infof("serve: shutting down")
			return publisher.Close()
		},
	}
	cmd.Flags().StringVarP(&kind, "transport", "t", "", "log, websocket or udp (default from config)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "listen or target address (default from config)")
	return cmd
}

func (a *app) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse endpoints and sessions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.StartBrowser(tui.DirectoryBackend{Directory: a.dir, Flow: a.cfg.DataFlow()})
		},
	}
}

// applyLogging applies the logging section of a reloaded config. Other
// sections take effect on the next start.
func applyLogging(cfg *config.Config) {
	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	if err := applog.SetFormat(cfg.LogFormat); err != nil {
		applog.Warnf("serve: %v", err)
	}
}
