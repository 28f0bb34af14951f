package arg

import (
	"fmt"
	"os"

	"github.com/smarttrack/smarttrack-backend-go/internal/config"
	"github.com/smarttrack/smarttrack-backend-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "smarttrackctl",
	Short: "smarttrackctl is the operator tool for SmartTrack",
	Long: `smarttrackctl runs maintenance tasks against the SmartTrack database:
applying migrations, printing the daily roster and hashing seed passwords.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads configuration from the environment and opens the database.
func connect() (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}
