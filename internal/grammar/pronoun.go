// Package grammar holds the lexical tables and the paradigm generator behind
// the pillars tab: for a pronoun and a tense frame it produces the
// affirmative, negative, interrogative, interrogative-negative and contracted
// sentences in English together with their Portuguese glosses.
package grammar

import (
	"strings"
)

// PronounID identifies one of the seven subject pronouns.
type PronounID int

const (
	PronounI PronounID = iota
	PronounYou
	PronounHe
	PronounShe
	PronounIt
	PronounWe
	PronounThey
)

// Pronoun is one row of the canonical pronoun table.
type Pronoun struct {
	ID PronounID
	// Subject is the sentence-initial form ("I", "You", "He", ...).
	Subject string
	// Gloss is the Portuguese subject ("Eu", "Você", ...).
	Gloss string
	// ThirdSingular selects does/has/-s for He, She and It.
	ThirdSingular bool

	BePresent         string // am / are / is
	BePresentNotShort string // 'm not / aren't / isn't
	BePast            string // was / were
	BePastNotShort    string // wasn't / weren't
	Do                string // do / does
	Have              string // have / has
}

// Question returns the subject as it appears after an inverted auxiliary.
// Only "I" keeps its capital.
func (p Pronoun) Question() string {
	if p.ID == PronounI {
		return p.Subject
	}
	return strings.ToLower(p.Subject)
}

const numPronouns = 7

var pronouns = [numPronouns]Pronoun{
	{ID: PronounI, Subject: "I", Gloss: "Eu",
		BePresent: "am", BePresentNotShort: "'m not", BePast: "was", BePastNotShort: "wasn't",
		Do: "do", Have: "have"},
	{ID: PronounYou, Subject: "You", Gloss: "Você",
		BePresent: "are", BePresentNotShort: "aren't", BePast: "were", BePastNotShort: "weren't",
		Do: "do", Have: "have"},
	{ID: PronounHe, Subject: "He", Gloss: "Ele", ThirdSingular: true,
		BePresent: "is", BePresentNotShort: "isn't", BePast: "was", BePastNotShort: "wasn't",
		Do: "does", Have: "has"},
	{ID: PronounShe, Subject: "She", Gloss: "Ela", ThirdSingular: true,
		BePresent: "is", BePresentNotShort: "isn't", BePast: "was", BePastNotShort: "wasn't",
		Do: "does", Have: "has"},
	{ID: PronounIt, Subject: "It", Gloss: "Isso", ThirdSingular: true,
		BePresent: "is", BePresentNotShort: "isn't", BePast: "was", BePastNotShort: "wasn't",
		Do: "does", Have: "has"},
	{ID: PronounWe, Subject: "We", Gloss: "Nós",
		BePresent: "are", BePresentNotShort: "aren't", BePast: "were", BePastNotShort: "weren't",
		Do: "do", Have: "have"},
	{ID: PronounThey, Subject: "They", Gloss: "Eles/Elas",
		BePresent: "are", BePresentNotShort: "aren't", BePast: "were", BePastNotShort: "weren't",
		Do: "do", Have: "have"},
}

// Pronouns returns the pronoun table in display order.
func Pronouns() []Pronoun {
	out := make([]Pronoun, len(pronouns))
	copy(out, pronouns[:])
	return out
}

// PronounByID returns the table row for id.
func PronounByID(id PronounID) (Pronoun, bool) {
	if id < 0 || int(id) >= len(pronouns) {
		return Pronoun{}, false
	}
	return pronouns[id], true
}

// ParsePronoun looks a pronoun up by its English subject, case-insensitively.
func ParsePronoun(s string) (Pronoun, bool) {
	s = strings.TrimSpace(s)
	for _, p := range pronouns {
		if strings.EqualFold(p.Subject, s) {
			return p, true
		}
	}
	return Pronoun{}, false
}
