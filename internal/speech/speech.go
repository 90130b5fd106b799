// Package speech synthesizes English lines to audio through an external
// text-to-speech command.
package speech

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"

	"studyapp/internal/config"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"
)

// MaxTextLength bounds a single utterance, in runes.
const MaxTextLength = 500

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// CheckText trims text and rejects empty or oversized input.
func CheckText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", contextutils.WrapError(contextutils.ErrMissingRequired, "text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", contextutils.WrapErrorf(contextutils.ErrInvalidInput, "text longer than %d characters", MaxTextLength)
	}
	return text, nil
}

// CommandSynthesizer runs an espeak-compatible command that writes WAV to
// stdout.
type CommandSynthesizer struct {
	command string
	voice   string
	rate    int
	logger  *observability.Logger
}

// NewCommandSynthesizer builds a synthesizer from cfg.
func NewCommandSynthesizer(cfg config.SpeechConfig, logger *observability.Logger) *CommandSynthesizer {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &CommandSynthesizer{command: cfg.Command, voice: cfg.Voice, rate: cfg.Rate, logger: logger}
}

func (s *CommandSynthesizer) args(text string) []string {
	args := []string{"--stdout"}
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	if s.rate > 0 {
		args = append(args, "-s", strconv.Itoa(s.rate))
	}
	// "--" keeps text starting with "-" from being read as a flag.
	return append(args, "--", text)
}

// Synthesize implements Synthesizer.
func (s *CommandSynthesizer) Synthesize(ctx context.Context, text string) (result []byte, err error) {
	ctx, span := observability.TraceSpeechFunction(ctx, "synthesize")
	defer observability.FinishSpan(span, &err)

	text, err = CheckText(text)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.command, s.args(text)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrTimeout, "speech interrupted: %v", ctx.Err())
		}
		s.logger.Warn(ctx, "Speech command failed", map[string]interface{}{
			"command": s.command,
			"stderr":  strings.TrimSpace(stderr.String()),
			"error":   err.Error(),
		})
		return nil, contextutils.WrapErrorf(contextutils.ErrSpeechUnavailable, "%s failed: %v", s.command, err)
	}
	return stdout.Bytes(), nil
}

// Disabled is the synthesizer used when speech is turned off.
type Disabled struct{}

// Synthesize always reports speech as unavailable.
func (Disabled) Synthesize(context.Context, string) ([]byte, error) {
	return nil, contextutils.WrapError(contextutils.ErrSpeechUnavailable, "speech synthesis is disabled")
}

// New returns the synthesizer configured by cfg.
func New(cfg config.SpeechConfig, logger *observability.Logger) Synthesizer {
	if !cfg.Enabled {
		return Disabled{}
	}
	return NewCommandSynthesizer(cfg, logger)
}
