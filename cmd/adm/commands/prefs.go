package commands

import (
	"context"
	"encoding/json"

	"studyapp/internal/config"
	"studyapp/internal/content"
	"studyapp/internal/observability"
	"studyapp/internal/shell"
	"studyapp/internal/store"
	contextutils "studyapp/internal/utils"

	"github.com/spf13/cobra"
)

// PreferenceCommands returns the preference management commands
func PreferenceCommands(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	prefsCmd := &cobra.Command{
		Use:   "prefs",
		Short: "Preference management commands",
		Long: `Read and change the stored preferences of a session owner, using the
configured preference backend.

Available commands:
  get     - Print the preferences of an owner
  set     - Replace the preferences of an owner
  toggle  - Flip the theme or translation visibility of an owner`,
	}

	prefsCmd.AddCommand(prefsGetCmd(cfg, logger))
	prefsCmd.AddCommand(prefsSetCmd(cfg, logger))
	prefsCmd.AddCommand(prefsToggleCmd(cfg, logger))
	return prefsCmd
}

// withShell opens the store, builds the owner's shell and runs fn.
func withShell(ctx context.Context, cfg *config.Config, logger *observability.Logger, owner string, fn func(*shell.Shell) (store.Preferences, error)) (store.Preferences, error) {
	if !contextutils.IsValidUUID(owner) {
		return store.Preferences{}, contextutils.WrapErrorf(contextutils.ErrInvalidFormat, "owner %q is not a uuid", owner)
	}
	s, err := store.New(ctx, cfg.Preferences, logger)
	if err != nil {
		return store.Preferences{}, err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn(ctx, "Failed to close preference store", map[string]interface{}{"error": err.Error()})
		}
	}()

	sh, err := shell.New(ctx, owner, shell.Deps{
		Content: content.NewRepository(content.Embedded(), logger),
		Store:   s,
		Logger:  logger,
		Tabs:    []shell.Tab{shell.DefaultTabs()[0]},
	})
	if err != nil {
		return store.Preferences{}, err
	}
	defer sh.Close()
	return fn(sh)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func prefsGetCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner>",
		Short: "Print the preferences of an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := withShell(cmd.Context(), cfg, logger, args[0], func(sh *shell.Shell) (store.Preferences, error) {
				return sh.Preferences(), nil
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func prefsSetCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var (
		theme        string
		translations bool
	)

	cmd := &cobra.Command{
		Use:   "set <owner>",
		Short: "Replace the preferences of an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := withShell(cmd.Context(), cfg, logger, args[0], func(sh *shell.Shell) (store.Preferences, error) {
				return sh.SetPreferences(cmd.Context(), store.Preferences{Theme: theme, ShowTranslations: translations})
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", store.ThemeLight, "light or dark")
	cmd.Flags().BoolVar(&translations, "translations", true, "Show Portuguese translations")
	return cmd
}

func prefsToggleCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:       "toggle <owner> theme|translations",
		Short:     "Flip the theme or translation visibility of an owner",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"theme", "translations"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := withShell(ctx, cfg, logger, args[0], func(sh *shell.Shell) (store.Preferences, error) {
				switch args[1] {
				case "theme":
					return sh.ToggleTheme(ctx)
				case "translations":
					return sh.ToggleTranslations(ctx)
				}
				return store.Preferences{}, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "cannot toggle %q", args[1])
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}
