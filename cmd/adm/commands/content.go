package commands

import (
	"errors"
	"fmt"

	"studyapp/internal/config"
	"studyapp/internal/content"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"github.com/spf13/cobra"
)

// ContentCommands returns the content document commands
func ContentCommands(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Content document commands",
		Long: `Content document commands.

Available commands:
  validate  - Check every document against its schema`,
	}
	contentCmd.AddCommand(validateCmd(cfg, logger))
	return contentCmd
}

func validateCmd(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every document against its schema",
		Long: `Fetch verbos.json, conversacoes.json and gramatica.json from the configured
source (or --dir) and check each one against its JSON schema and record rules.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var source content.Source
			if dir != "" {
				source = content.NewDirSource(dir)
			} else {
				var err error
				source, err = content.NewSource(cfg.Content, logger)
				if err != nil {
					return err
				}
			}
			logger.Info(ctx, "Validating content", map[string]interface{}{"source": source.String()})

			var errs []error
			for _, name := range content.Documents() {
				data, err := source.Fetch(ctx, name)
				if err == nil {
					_, err = content.Decode(name, data)
				}
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %v\n", name, err)
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok    %s (%d bytes)\n", name, len(data))
			}
			if len(errs) > 0 {
				return contextutils.WrapErrorf(errors.Join(errs...), "%d of %d documents invalid", len(errs), len(content.Documents()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Validate the documents in this directory instead of the configured source")
	return cmd
}
