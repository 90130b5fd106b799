// Package commands provides CLI commands for the admin tool
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"studyapp/internal/grammar"
	"studyapp/internal/observability"
	"studyapp/internal/render"
	contextutils "studyapp/internal/utils"

	"github.com/spf13/cobra"
)

// ParadigmCommand returns the paradigm command
func ParadigmCommand(logger *observability.Logger) *cobra.Command {
	var (
		req     grammar.FrameRequest
		pronoun string
	)

	cmd := &cobra.Command{
		Use:   "paradigm",
		Short: "Print the five sentence forms of a frame",
		Long: `Print the affirmative, negative, interrogative, interrogative negative
and contracted sentences of a tense frame, with their Portuguese translations.

Without --pronoun every pronoun is printed. Action verbs must be regular in
the past tense.`,
		Example: `  adm paradigm --tense present --construction action_verb --verb work --verb-pt trabalhar
  adm paradigm --tense past --construction to_be --complement happy --complement-pt feliz --pronoun she`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			frame, err := grammar.BuildFrame(req)
			if err != nil {
				return err
			}
			pronouns := grammar.Pronouns()
			if pronoun != "" {
				p, ok := grammar.ParsePronoun(pronoun)
				if !ok {
					return contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown pronoun %q", pronoun)
				}
				pronouns = []grammar.Pronoun{p}
			}

			logger.Debug(cmd.Context(), "Generating paradigm", map[string]interface{}{
				"tense":        req.Tense,
				"construction": req.Construction,
				"pronouns":     len(pronouns),
			})
			paradigms := make([]grammar.Paradigm, 0, len(pronouns))
			for _, p := range pronouns {
				paradigms = append(paradigms, grammar.Generate(p, frame))
			}
			return printParadigms(cmd.OutOrStdout(), paradigms)
		},
	}

	cmd.Flags().StringVar(&req.Tense, "tense", "present", "Present, Past or Future")
	cmd.Flags().StringVar(&req.Construction, "construction", "action_verb", "to_be, action_verb, modal, have_possession or have_obligation")
	cmd.Flags().StringVar(&req.Verb, "verb", "", "English base verb")
	cmd.Flags().StringVar(&req.VerbPortuguese, "verb-pt", "", "Portuguese infinitive")
	cmd.Flags().StringVar(&req.Complement, "complement", "", "English complement or object")
	cmd.Flags().StringVar(&req.ComplementPortuguese, "complement-pt", "", "Portuguese complement or object")
	cmd.Flags().StringVar(&pronoun, "pronoun", "", "Only this pronoun (I, you, he, she, it, we, they)")
	return cmd
}

// PillarsCommand returns the pillars command
func PillarsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pillars [id]",
		Short: "Print the pillar paradigms",
		Long:  `Print every pillar (tobe, simple, can, have) or only the one named.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pillars := grammar.Pillars()
			if len(args) == 1 {
				p, ok := grammar.PillarByID(args[0])
				if !ok {
					return contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "unknown pillar %q", args[0])
				}
				pillars = []grammar.Pillar{p}
			}
			return printSections(cmd.OutOrStdout(), render.Pillars(pillars))
		},
	}
}

func printParadigms(w io.Writer, paradigms []grammar.Paradigm) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range paradigms {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		for _, k := range grammar.FormKinds() {
			f := p.Form(k)
			if !f.Applicable {
				fmt.Fprintf(tw, "%s\t-\t\n", k.Label())
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", k.Label(), f.English, f.Portuguese)
		}
	}
	return tw.Flush()
}

func printSections(w io.Writer, sections ...render.Section) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range sections {
		fmt.Fprintf(tw, "== %s ==\n", s.Title)
		if s.Message != "" {
			fmt.Fprintln(tw, s.Message)
		}
		for _, g := range s.Groups {
			if g.Title != "" {
				fmt.Fprintf(tw, "\n-- %s --\n", g.Title)
			}
			for _, it := range g.Items {
				if it.Title != "" {
					fmt.Fprintf(tw, "%s\t%s\t\n", it.Title, it.Subtitle)
				}
				for _, l := range it.Lines {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", l.Label, l.English, l.Portuguese)
				}
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
