package grammar

import (
	"strings"

	contextutils "studyapp/internal/utils"
)

// FrameRequest is the loosely typed description of a frame as it arrives
// from a query string or the command line.
type FrameRequest struct {
	Tense                string `json:"tense" form:"tense"`
	Construction         string `json:"construction" form:"construction"`
	Verb                 string `json:"verb" form:"verb"`
	VerbPortuguese       string `json:"verb_pt" form:"verb_pt"`
	Complement           string `json:"complement" form:"complement"`
	ComplementPortuguese string `json:"complement_pt" form:"complement_pt"`
}

// BuildFrame validates r and converts it into a TenseFrame. Unknown names are
// reported as contextutils.ErrInvalidInput and missing words as
// contextutils.ErrMissingRequired.
//
// Action verbs must be regular in the past tense: irregular pasts are never
// generated. "be", "have" and the modals have constructions of their own.
func BuildFrame(r FrameRequest) (TenseFrame, error) {
	tense, ok := ParseTense(r.Tense)
	if !ok {
		return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown tense %q", r.Tense)
	}
	kind, ok := ParseConstructionKind(r.Construction)
	if !ok {
		return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown construction %q", r.Construction)
	}

	verb := V(strings.TrimSpace(r.Verb), strings.TrimSpace(r.VerbPortuguese))
	comp := P(strings.TrimSpace(r.Complement), strings.TrimSpace(r.ComplementPortuguese))

	needsVerb := kind == KindActionVerb || kind == KindModal || kind == KindHaveObligation
	if needsVerb && verb.Base == "" {
		return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "construction %s requires a verb", kind)
	}

	if kind == KindActionVerb {
		switch {
		case ownConstruction(verb.Base):
			return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrInvalidInput,
				"%q is not an action verb, use the to_be, have_possession, have_obligation or modal construction", verb.Base)
		case tense == Past && isIrregular(verb.Base):
			return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrInvalidInput,
				"%q has an irregular past; only regular verbs can be generated in the past tense", verb.Base)
		}
	}

	var c Construction
	switch kind {
	case KindToBe:
		if comp.English == "" {
			return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "construction %s requires a complement", kind)
		}
		c = ToBe{Complement: comp}
	case KindActionVerb:
		c = ActionVerb{Verb: verb, Complement: comp}
	case KindModal:
		c = Modal{Verb: verb, Complement: comp}
	case KindHavePossession:
		if comp.English == "" {
			return TenseFrame{}, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "construction %s requires an object", kind)
		}
		c = HaveSense{Sense: Possession, Object: comp}
	case KindHaveObligation:
		c = HaveSense{Sense: Obligation, Verb: verb}
	}
	return TenseFrame{Tense: tense, Construction: c}, nil
}
