package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the registration and search screens as a JSON HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := mustBootstrap(ctx)
	defer a.Close()

	a.logger.Info("starting the skillmatch server", zap.String("version", version))

	srv, err := server.New(server.Config{
		Listen:     a.config.Server.Listen,
		RateLimit:  a.config.Server.RateLimit,
		RateWindow: a.config.Server.RateWindow,
	}, server.Deps{
		Registrar: a.registration,
		Searcher:  a.search,
		Store:     a.store,
		Logger:    a.logger,
	})
	if err != nil {
		a.fail("creating the server", err)
		return
	}

	if err := srv.Run(ctx); err != nil {
		a.logger.Error("server stopped", zap.Error(err))
	}
}
