package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/pipeline"
	"github.com/Keerthi292/Emotion-Recognition-system/internal/server"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the emotion analysis HTTP API",
	Long: `Serve starts the HTTP API and blocks until interrupted:

  GET  /health         service health and supported upload formats
  POST /analyze        multipart analysis (text, audio, image fields)
  GET  /models/status  per-analyzer availability

Example:
  emorec serve
  emorec serve --host 127.0.0.1 --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	registerCommonFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyCommonFlags(cmd, &cfg)
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	logger := newLogger()
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	// Stop on Ctrl-C or SIGTERM and let in-flight requests drain
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(p, cfg.Server, logger).Run(ctx)
}
