package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-setiawan/action-lark-bot/pkg/receiver"
)

var (
	listenAddr      string
	listenSecret    string
	listenSecretEnv string
	listenMaxBody   int64
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run a local webhook receiver that mimics a Lark custom bot",
	Long: `Listen starts an HTTP server that accepts bot payloads on POST / and
verifies signatures the way Lark does, making it a stand-in endpoint
for developing templates and workflows without a real bot.

Point larkbot send (or a workflow) at the printed address and watch
the payloads arrive in the log.`,
	Example: `  # Accept unsigned payloads on :8080
  larkbot listen

  # Verify signatures with the same secret the sender uses
  larkbot listen --secret-env LARK_SECRET`,
	RunE: runListen,
}

func runListen(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	secret := listenSecret
	if secret == "" && listenSecretEnv != "" {
		secret = os.Getenv(listenSecretEnv)
	}

	srv := receiver.New(receiver.Config{
		Addr:        listenAddr,
		Secret:      secret,
		MaxBodySize: listenMaxBody,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting receiver", "addr", listenAddr, "signed", secret != "")
	err := srv.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Address to listen on")
	listenCmd.Flags().StringVar(&listenSecret, "secret", "", "Signing secret payloads must be signed with (prefer --secret-env)")
	listenCmd.Flags().StringVar(&listenSecretEnv, "secret-env", "", "Name of the environment variable holding the signing secret")
	listenCmd.Flags().Int64Var(&listenMaxBody, "max-body", receiver.DefaultMaxBodySize, "Maximum accepted request body in bytes")
}
