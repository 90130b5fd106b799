package grammar

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// clause is the tense-resolved skeleton every form is realized from.
//
// The affirmative is subject + affirmative. Negatives and questions use aux
// followed by tail: "She" + "does" + "work every day".
type clause struct {
	affirmative []string
	aux         string
	tail        []string
	// shortNot is the contracted "aux + not" ("isn't", "'m not"). Empty
	// means the language has no standard contraction for aux.
	shortNot string
	// fusedNot replaces "aux not" in the Negative form ("cannot").
	fusedNot string
	// doSupport marks present do/does frames, whose Negative already is
	// the contraction.
	doSupport bool

	// pt is the Portuguese predicate: conjugated verb plus complement.
	pt []string
}

// Generate produces the five sentence forms for pronoun p and frame f. It is
// total: a frame it does not know yields forms marked not applicable.
func Generate(p Pronoun, f TenseFrame) Paradigm {
	out := Paradigm{Pronoun: p.ID, Tense: f.Tense, Kind: KindUnknown}
	if f.Construction != nil {
		out.Kind = f.Construction.Kind()
	}

	c, ok := buildClause(p, f)
	if !ok {
		out.Kind = KindUnknown
		for i := range out.Forms {
			out.Forms[i] = notApplicable()
		}
		return out
	}

	out.Forms[Affirmative] = Form{
		English:    sentence(p.Subject, c.affirmative, "."),
		Portuguese: sentence(p.Gloss, c.pt, "."),
		Applicable: true,
	}

	negAux := []string{c.aux, "not"}
	if c.fusedNot != "" {
		negAux = []string{c.fusedNot}
	}
	if c.doSupport {
		negAux = []string{c.shortNot}
	}
	negPT := append([]string{"não"}, c.pt...)
	out.Forms[Negative] = Form{
		English:    sentence(p.Subject, append(negAux, c.tail...), "."),
		Portuguese: sentence(p.Gloss, negPT, "."),
		Applicable: true,
	}

	out.Forms[Interrogative] = Form{
		English:    sentence(capitalize(c.aux), append([]string{p.Question()}, c.tail...), "?"),
		Portuguese: sentence(p.Gloss, c.pt, "?"),
		Applicable: true,
	}

	out.Forms[InterrogativeNegative] = Form{
		English:    sentence(capitalize(c.aux), append([]string{p.Question(), "not"}, c.tail...), "?"),
		Portuguese: sentence(p.Gloss, negPT, "?"),
		Applicable: true,
	}

	switch {
	case c.doSupport:
		out.Forms[Contracted] = out.Forms[Negative]
	case c.shortNot != "":
		out.Forms[Contracted] = Form{
			English:    sentence(p.Subject, append([]string{c.shortNot}, c.tail...), "."),
			Portuguese: sentence(p.Gloss, negPT, ".") + " (Abreviado)",
			Applicable: true,
		}
	default:
		out.Forms[Contracted] = notApplicable()
	}
	return out
}

// buildClause resolves auxiliaries, agreement and tense marking.
func buildClause(p Pronoun, f TenseFrame) (clause, bool) {
	if !f.Tense.valid() || int(p.ID) < 0 || int(p.ID) >= numPronouns {
		return clause{}, false
	}

	switch con := f.Construction.(type) {
	case ToBe:
		return toBeClause(p, f.Tense, con), true
	case ActionVerb:
		return actionClause(p, f.Tense, con), true
	case Modal:
		return modalClause(p, f.Tense, con), true
	case HaveSense:
		return haveClause(p, f.Tense, con), true
	default:
		return clause{}, false
	}
}

func toBeClause(p Pronoun, t Tense, con ToBe) clause {
	comp := con.Complement.English
	pt := []string{serEstar[t][p.ID], con.Complement.Portuguese}

	switch t {
	case Present:
		return clause{
			affirmative: []string{p.BePresent, comp},
			aux:         p.BePresent,
			tail:        []string{comp},
			shortNot:    p.BePresentNotShort,
			pt:          pt,
		}
	case Past:
		return clause{
			affirmative: []string{p.BePast, comp},
			aux:         p.BePast,
			tail:        []string{comp},
			shortNot:    p.BePastNotShort,
			pt:          pt,
		}
	default:
		return willClause([]string{"be", comp}, pt)
	}
}

func actionClause(p Pronoun, t Tense, con ActionVerb) clause {
	verb := con.Verb
	comp := con.Complement.English
	pt := []string{verb.PortugueseForm(t, p.ID), con.Complement.Portuguese}

	switch t {
	case Present:
		affVerb := verb.Base
		if p.ThirdSingular {
			affVerb = verb.ThirdPerson()
		}
		return doClause(p.Do, []string{affVerb, comp}, []string{verb.Base, comp}, pt)
	case Past:
		return doClause("did", []string{verb.PastSimple(), comp}, []string{verb.Base, comp}, pt)
	default:
		return willClause([]string{verb.Base, comp}, pt)
	}
}

func modalClause(p Pronoun, t Tense, con Modal) clause {
	rest := []string{con.Verb.Base, con.Complement.English}
	pt := []string{conseguir[t][p.ID], con.Verb.Portuguese, con.Complement.Portuguese}

	switch t {
	case Present:
		return clause{
			affirmative: append([]string{"can"}, rest...),
			aux:         "can",
			tail:        rest,
			shortNot:    negativeContraction("can"),
			fusedNot:    "cannot",
			pt:          pt,
		}
	case Past:
		return clause{
			affirmative: append([]string{"could"}, rest...),
			aux:         "could",
			tail:        rest,
			shortNot:    negativeContraction("could"),
			pt:          pt,
		}
	default:
		return willClause(append([]string{"be able to"}, rest...), pt)
	}
}

func haveClause(p Pronoun, t Tense, con HaveSense) clause {
	var rest []string
	var pt []string
	if con.Sense == Obligation {
		rest = []string{"to", con.Verb.Base}
		pt = []string{ter[t][p.ID], "que", con.Verb.Portuguese}
	} else {
		rest = []string{con.Object.English}
		pt = []string{ter[t][p.ID], con.Object.Portuguese}
	}
	base := append([]string{"have"}, rest...)

	switch t {
	case Present:
		return doClause(p.Do, append([]string{p.Have}, rest...), base, pt)
	case Past:
		return doClause("did", append([]string{"had"}, rest...), base, pt)
	default:
		return willClause(base, pt)
	}
}

// doClause builds a frame negated and questioned through do-support.
func doClause(aux string, affirmative, tail, pt []string) clause {
	return clause{
		affirmative: affirmative,
		aux:         aux,
		tail:        tail,
		shortNot:    negativeContraction(aux),
		doSupport:   aux != "did",
		pt:          pt,
	}
}

func willClause(tail, pt []string) clause {
	return clause{
		affirmative: append([]string{"will"}, tail...),
		aux:         "will",
		tail:        tail,
		shortNot:    negativeContraction("will"),
		pt:          pt,
	}
}

var contractions = map[string]string{
	"is":     "isn't",
	"are":    "aren't",
	"was":    "wasn't",
	"were":   "weren't",
	"do":     "don't",
	"does":   "doesn't",
	"did":    "didn't",
	"will":   "won't",
	"can":    "can't",
	"could":  "couldn't",
	"have":   "haven't",
	"has":    "hasn't",
	"had":    "hadn't",
	"should": "shouldn't",
	"would":  "wouldn't",
	"must":   "mustn't",
}

// negativeContraction returns the standard "aux + n't" form, or "" when
// English has none (am, may).
func negativeContraction(aux string) string {
	return contractions[aux]
}

// sentence joins head and words with single spaces, skipping empty words.
// Clitics starting with an apostrophe attach to the preceding word.
func sentence(head string, words []string, end string) string {
	var b strings.Builder
	b.WriteString(head)
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if !strings.HasPrefix(w, "'") {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	b.WriteString(end)
	return b.String()
}

func capitalize(word string) string {
	return cases.Title(language.English, cases.NoLower).String(word)
}
