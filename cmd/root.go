package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yeremiapane/table-reservation/config"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/utils"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reservas",
		Short:         "Table reservation service for a single dining venue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and sets up the loggers.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.InitLoggerWithLevel(cfg.LogLevel)
	return cfg, nil
}

// openDatabase connects and optionally migrates. The caller closes the pool.
func openDatabase(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	db, err := config.InitDB(cfg, utils.InfoLogger)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db, utils.InfoLogger); err != nil {
			closeDatabase(db)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
