package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/devserver"
	"github.com/foliokit/folioctl/internal/server"
)

var signalNotifyContext = signal.NotifyContext

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve <dir>",
		Short: "Preview a site directory locally with rebuild on save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalNotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger, err := server.NewLogger("info")
			if err != nil {
				return err
			}

			srv, err := devserver.New(devserver.Options{
				SiteDir: args[0],
				Port:    port,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", devserver.DefaultPort, "Port to listen on")

	return cmd
}
