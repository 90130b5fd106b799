package commands

import (
	"os"

	"studyapp/internal/config"
	"studyapp/internal/observability"
	"studyapp/internal/speech"
	contextutils "studyapp/internal/utils"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// SpeakCommand returns the speak command
func SpeakCommand(cfg *config.Config, logger *observability.Logger) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "speak <text>",
		Short: "Synthesize English text to a WAV file",
		Long: `Synthesize English text with the configured speech command and write the
audio as WAV to --out, or to stdout when it is not a terminal.`,
		Example: `  adm speak "I have been working." --out sample.wav
  adm speak "Where do you live?" | aplay`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := speech.CheckText(args[0])
			if err != nil {
				return err
			}
			if out == "" && term.IsTerminal(int(os.Stdout.Fd())) {
				return contextutils.WrapError(contextutils.ErrInvalidInput, "refusing to write audio to a terminal, use --out or a pipe")
			}

			speechCfg := cfg.Speech
			speechCfg.Enabled = true
			audio, err := speech.New(speechCfg, logger).Synthesize(ctx, text)
			if err != nil {
				return err
			}
			logger.Info(ctx, "Synthesized speech", map[string]interface{}{"bytes": len(audio), "voice": speechCfg.Voice})

			if out == "" {
				_, err = cmd.OutOrStdout().Write(audio)
				return err
			}
			if err := os.WriteFile(out, audio, 0o644); err != nil {
				return contextutils.WrapErrorf(err, "failed to write %s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the WAV file here")
	return cmd
}
