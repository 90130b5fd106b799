package commands

import (
	"fmt"

	"studyapp/internal/config"
	"studyapp/internal/database"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/spf13/cobra"
)

// DatabaseCommands returns the database management commands
func DatabaseCommands(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Database management commands for the postgres preference backend.

Available commands:
  migrate   - Apply, revert or inspect schema migrations`,
	}

	dbCmd.AddCommand(migrateCmd(cfg, logger))
	return dbCmd
}

// migrateCmd returns the migrate command
func migrateCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply, revert or inspect schema migrations",
		Long:      `Apply pending migrations (up, the default), revert every migration (down) or print the current version.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			dbCfg := cfg.Preferences.Database
			logger.Info(ctx, "Admin command diagnostics", map[string]interface{}{
				"database_url": contextutils.MaskURLPassword(dbCfg.URL),
				"action":       action,
			})

			manager := database.NewManager(logger)
			db, err := manager.InitDBWithoutMigrations(ctx, dbCfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logger.Warn(ctx, "Warning: failed to close database connection", map[string]interface{}{"error": err.Error()})
				}
			}()

			switch action {
			case "up":
				err = manager.RunMigrations(ctx, db)
			case "down":
				err = manager.MigrateDown(ctx, db)
			case "version":
			default:
				return contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown migrate action %q", action)
			}
			if err != nil {
				return err
			}

			version, dirty, err := manager.MigrationVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%t\n", version, dirty)
			return nil
		},
	}
}
