package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowvis/flowvis/internal/server"
	"github.com/flowvis/flowvis/pkg/vis"
)

// newServeCmd creates the serve command: expose a flowsheet session over
// HTTP for a browser client. The server is the authoritative graph; the
// browser canvas applies its gestures through the mutation endpoints.
func newServeCmd(iconsPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file" + vis.Ext + "]",
		Short: "Serve a flowsheet to a browser client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			reg, err := loadRegistry(*iconsPath)
			if err != nil {
				return err
			}
			fs, err := vis.ReadFile(args[0], reg.Resolve)
			if err != nil {
				return err
			}
			session := vis.NewSession(fs, reg.Resolve)
			srv := server.New(session, logger, args[0])

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				httpSrv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving flowsheet", "file", args[0], "addr", addr)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8410", "listen address")
	return cmd
}
