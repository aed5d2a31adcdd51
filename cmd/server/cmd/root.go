package cmd

import (
	"fmt"
	"os"

	"passvault/internal/config"
	"passvault/internal/logger"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "passvault",
	Short: "PassVault credential vault server",
	Long: `PassVault is a multi-tenant credential vault. Secrets are encrypted
per user, storage can be routed to a user-supplied database, every access
is audited and secrets are monitored against known breach corpora.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = config.MustLoad()
		log = logger.New(cfg.Env)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
