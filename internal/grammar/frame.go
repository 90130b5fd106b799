package grammar

import (
	"fmt"
	"strings"
)

// Tense is the time reference of a frame.
type Tense int

const (
	Present Tense = iota
	Past
	Future
)

// Tenses returns every tense in display order.
func Tenses() []Tense {
	return []Tense{Present, Past, Future}
}

func (t Tense) String() string {
	switch t {
	case Present:
		return "Present"
	case Past:
		return "Past"
	case Future:
		return "Future"
	default:
		return fmt.Sprintf("Tense(%d)", int(t))
	}
}

func (t Tense) valid() bool {
	return t >= Present && t <= Future
}

// ParseTense accepts the English tense names, case-insensitively.
func ParseTense(s string) (Tense, bool) {
	for _, t := range Tenses() {
		if strings.EqualFold(t.String(), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return 0, false
}

// Phrase is a fragment of text with its Portuguese counterpart.
type Phrase struct {
	English    string
	Portuguese string
}

// P builds a Phrase.
func P(english, portuguese string) Phrase {
	return Phrase{English: english, Portuguese: portuguese}
}

// Sense distinguishes the two constructions built on "have".
type Sense int

const (
	// Possession is "have/has + object".
	Possession Sense = iota
	// Obligation is "have/has to + verb".
	Obligation
)

func (s Sense) String() string {
	if s == Obligation {
		return "Obligation"
	}
	return "Possession"
}

// ConstructionKind enumerates the sentence types the generator knows.
type ConstructionKind int

const (
	KindUnknown ConstructionKind = iota - 1
	KindToBe
	KindActionVerb
	KindModal
	KindHavePossession
	KindHaveObligation
)

// Kinds returns every known construction kind.
func Kinds() []ConstructionKind {
	return []ConstructionKind{KindToBe, KindActionVerb, KindModal, KindHavePossession, KindHaveObligation}
}

var kindNames = map[ConstructionKind]string{
	KindToBe:           "to_be",
	KindActionVerb:     "action_verb",
	KindModal:          "modal",
	KindHavePossession: "have_possession",
	KindHaveObligation: "have_obligation",
}

func (k ConstructionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseConstructionKind accepts the snake_case kind names.
func ParseConstructionKind(s string) (ConstructionKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindUnknown, false
}

// Construction is the closed set of sentence types. Only the types declared
// in this package implement it.
type Construction interface {
	Kind() ConstructionKind
	construction()
}

// ToBe links the subject to a complement with the copula.
type ToBe struct {
	Complement Phrase
}

// ActionVerb is a lexical verb with an optional trailing complement.
type ActionVerb struct {
	Verb       Verb
	Complement Phrase
}

// Modal expresses ability: can (present), could (past), will be able to
// (future).
type Modal struct {
	Verb       Verb
	Complement Phrase
}

// HaveSense is "have" as possession (Object) or as obligation (Verb).
type HaveSense struct {
	Sense  Sense
	Object Phrase
	Verb   Verb
}

func (ToBe) Kind() ConstructionKind { return KindToBe }
func (ActionVerb) Kind() ConstructionKind { return KindActionVerb }
func (Modal) Kind() ConstructionKind { return KindModal }

func (h HaveSense) Kind() ConstructionKind {
	if h.Sense == Obligation {
		return KindHaveObligation
	}
	return KindHavePossession
}

func (ToBe) construction() {}
func (ActionVerb) construction() {}
func (Modal) construction() {}
func (HaveSense) construction() {}

// TenseFrame is the full input of the generator besides the pronoun.
type TenseFrame struct {
	Tense        Tense
	Construction Construction
}

// FormKind names one of the five sentence variants of a paradigm.
type FormKind int

const (
	Affirmative FormKind = iota
	Negative
	Interrogative
	InterrogativeNegative
	Contracted

	numFormKinds
)

// FormKinds returns the five kinds in display order.
func FormKinds() []FormKind {
	return []FormKind{Affirmative, Negative, Interrogative, InterrogativeNegative, Contracted}
}

func (k FormKind) String() string {
	switch k {
	case Affirmative:
		return "affirmative"
	case Negative:
		return "negative"
	case Interrogative:
		return "interrogative"
	case InterrogativeNegative:
		return "interrogative_negative"
	case Contracted:
		return "contracted"
	default:
		return fmt.Sprintf("FormKind(%d)", int(k))
	}
}

// Label is the Portuguese heading shown above the form.
func (k FormKind) Label() string {
	switch k {
	case Affirmative:
		return "Afirmativa"
	case Negative:
		return "Negativa"
	case Interrogative:
		return "Interrogativa"
	case InterrogativeNegative:
		return "Interrogativa Negativa"
	case Contracted:
		return "Abreviada (Negativa)"
	default:
		return k.String()
	}
}

// Placeholder texts of a form that does not apply.
const (
	NotApplicableEnglish    = "(not applicable)"
	NotApplicablePortuguese = "(não se aplica)"
)

// Form is one sentence with its gloss. Applicable is false when the form
// does not exist for the frame; the texts then hold the placeholders.
type Form struct {
	English    string
	Portuguese string
	Applicable bool
}

func notApplicable() Form {
	return Form{English: NotApplicableEnglish, Portuguese: NotApplicablePortuguese}
}

// Paradigm is the generator output for one pronoun and frame.
type Paradigm struct {
	Pronoun PronounID
	Tense   Tense
	Kind    ConstructionKind
	Forms   [numFormKinds]Form
}

// Form returns the sentence of kind k.
func (p Paradigm) Form(k FormKind) Form {
	if k < 0 || k >= numFormKinds {
		return notApplicable()
	}
	return p.Forms[k]
}
