// Command compliancectl checks contracts against a running compliance API
// and runs the maintenance tasks the server performs at startup.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/joho/godotenv/autoload"
)

var (
	serverURL  string
	configFile string
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "compliancectl",
	Short:        "Regulatory compliance checker for legal contracts",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	rootCmd.AddCommand(checkCmd, seedCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
