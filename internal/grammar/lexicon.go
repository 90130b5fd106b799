package grammar

import (
	"strings"
)

// Conjugation holds one Portuguese verb form per pronoun, indexed by
// PronounID.
type Conjugation [numPronouns]string

// Verb is a lexical verb. The English side is always regular inside the
// generator; irregular verbs live in the verb content lists.
type Verb struct {
	// Base is the English bare infinitive ("work").
	Base string
	// Portuguese is the infinitive gloss ("trabalhar").
	Portuguese string
	// Forms overrides the rule-based Portuguese conjugation per tense.
	Forms map[Tense]Conjugation
}

// V builds a Verb whose Portuguese forms follow the regular -ar pattern.
func V(base, portuguese string) Verb {
	return Verb{Base: base, Portuguese: portuguese}
}

// ThirdPerson returns the present third-person singular ("works").
func (v Verb) ThirdPerson() string {
	return thirdPerson(v.Base)
}

// PastSimple returns the regular past ("worked").
func (v Verb) PastSimple() string {
	return pastRegular(v.Base)
}

// PortugueseForm returns the conjugated Portuguese verb for tense t.
func (v Verb) PortugueseForm(t Tense, id PronounID) string {
	if c, ok := v.Forms[t]; ok && int(id) < len(c) && c[id] != "" {
		return c[id]
	}
	if c, ok := conjugateAr(v.Portuguese, t); ok && int(id) < len(c) {
		return c[id]
	}
	return v.Portuguese
}

var (
	arPresent = Conjugation{"o", "a", "a", "a", "a", "amos", "am"}
	arPast    = Conjugation{"ei", "ou", "ou", "ou", "ou", "amos", "aram"}
	arFuture  = Conjugation{"arei", "ará", "ará", "ará", "ará", "aremos", "arão"}
)

// conjugateAr conjugates a regular first-conjugation verb.
func conjugateAr(infinitive string, t Tense) (Conjugation, bool) {
	if !strings.HasSuffix(infinitive, "ar") || strings.Contains(infinitive, " ") || len(infinitive) < 3 {
		return Conjugation{}, false
	}
	stem := strings.TrimSuffix(infinitive, "ar")

	var endings Conjugation
	switch t {
	case Present:
		endings = arPresent
	case Past:
		endings = arPast
	case Future:
		endings = arFuture
	default:
		return Conjugation{}, false
	}

	var out Conjugation
	for i, e := range endings {
		s := stem
		if strings.HasPrefix(e, "e") {
			s = softenBeforeE(stem)
		}
		out[i] = s + e
	}
	return out, true
}

// softenBeforeE keeps the stem sound before an -e ending (ficar → fiquei,
// chegar → cheguei, começar → comecei).
func softenBeforeE(stem string) string {
	switch {
	case strings.HasSuffix(stem, "ç"):
		return strings.TrimSuffix(stem, "ç") + "c"
	case strings.HasSuffix(stem, "c"):
		return strings.TrimSuffix(stem, "c") + "qu"
	case strings.HasSuffix(stem, "g"):
		return stem + "u"
	}
	return stem
}

// Irregular Portuguese tables used by the copula, modal and have frames.
var (
	serEstar = map[Tense]Conjugation{
		Present: {"sou/estou", "é/está", "é/está", "é/está", "é/está", "somos/estamos", "são/estão"},
		Past:    {"era/estava", "era/estava", "era/estava", "era/estava", "era/estava", "éramos/estávamos", "eram/estavam"},
		Future:  {"serei/estarei", "será/estará", "será/estará", "será/estará", "será/estará", "seremos/estaremos", "serão/estarão"},
	}
	conseguir = map[Tense]Conjugation{
		Present: {"consigo", "consegue", "consegue", "consegue", "consegue", "conseguimos", "conseguem"},
		Past:    {"conseguia", "conseguia", "conseguia", "conseguia", "conseguia", "conseguíamos", "conseguiam"},
		Future:  {"conseguirei", "conseguirá", "conseguirá", "conseguirá", "conseguirá", "conseguiremos", "conseguirão"},
	}
	ter = map[Tense]Conjugation{
		Present: {"tenho", "tem", "tem", "tem", "tem", "temos", "têm"},
		Past:    {"tive", "teve", "teve", "teve", "teve", "tivemos", "tiveram"},
		Future:  {"terei", "terá", "terá", "terá", "terá", "teremos", "terão"},
	}
)

func isVowel(r byte) bool {
	return strings.IndexByte("aeiou", r) >= 0
}

func thirdPerson(base string) string {
	switch {
	case base == "":
		return base
	case base == "have":
		return "has"
	case strings.HasSuffix(base, "y") && len(base) > 1 && !isVowel(base[len(base)-2]):
		return base[:len(base)-1] + "ies"
	case strings.HasSuffix(base, "s"), strings.HasSuffix(base, "x"), strings.HasSuffix(base, "z"),
		strings.HasSuffix(base, "ch"), strings.HasSuffix(base, "sh"), strings.HasSuffix(base, "o"):
		return base + "es"
	}
	return base + "s"
}

// irregularBases are common verbs whose past form is not base+ed. The
// generator never inflects them; their forms come from the verb content.
var irregularBases = map[string]bool{}

func init() {
	for _, v := range strings.Fields(`
		arise awake bear beat become begin bend bet bind bite bleed blow break
		breed bring build burn buy catch choose cling come cost creep cut deal
		dig do draw dream drink drive eat fall feed feel fight find flee fling
		fly forbid forget forgive freeze get give go grind grow hang hear hide
		hit hold hurt keep kneel know lay lead lean leap learn leave lend let
		lie light lose make mean meet pay put quit read ride ring rise run say
		see seek sell send set shake shine shoot show shrink shut sing sink sit
		sleep slide smell speak speed spell spend spill spin spit split spoil
		spread spring stand steal stick sting stink strike swear sweep swim
		swing take teach tear tell think throw understand wake wear weep win
		wind write`) {
		irregularBases[v] = true
	}
}

// isIrregular reports whether base has an irregular past form.
func isIrregular(base string) bool {
	return irregularBases[strings.ToLower(base)]
}

// ownConstruction reports verbs that have a construction of their own and
// are never action verbs here.
func ownConstruction(base string) bool {
	switch strings.ToLower(base) {
	case "be", "have", "can", "could", "will", "would", "shall", "should", "may", "might", "must":
		return true
	}
	return false
}

func pastRegular(base string) string {
	switch {
	case base == "":
		return base
	case strings.HasSuffix(base, "e"):
		return base + "d"
	case strings.HasSuffix(base, "y") && len(base) > 1 && !isVowel(base[len(base)-2]):
		return base[:len(base)-1] + "ied"
	case doublesFinalConsonant(base):
		return base + base[len(base)-1:] + "ed"
	}
	return base + "ed"
}

// doublesFinalConsonant reports a one-syllable consonant-vowel-consonant
// ending (stop → stopped). w, x and y never double.
func doublesFinalConsonant(base string) bool {
	n := len(base)
	if n < 3 {
		return false
	}
	last, mid, first := base[n-1], base[n-2], base[n-3]
	if isVowel(last) || strings.IndexByte("wxy", last) >= 0 || !isVowel(mid) || isVowel(first) {
		return false
	}
	groups := 0
	inVowel := false
	for i := 0; i < n; i++ {
		v := isVowel(base[i])
		if v && !inVowel {
			groups++
		}
		inVowel = v
	}
	return groups == 1
}
