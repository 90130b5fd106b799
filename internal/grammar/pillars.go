package grammar

// PillarSection is one tense block of a pillar: a title and the frame
// expanded for every pronoun.
type PillarSection struct {
	Title string
	Frame TenseFrame
}

// Paradigms expands the section for the seven pronouns in table order.
func (s PillarSection) Paradigms() []Paradigm {
	out := make([]Paradigm, 0, numPronouns)
	for _, p := range pronouns {
		out = append(out, Generate(p, s.Frame))
	}
	return out
}

// Pillar is a group of sections shown under one toggle of the pillars tab.
type Pillar struct {
	ID       string
	Title    string
	Sections []PillarSection
}

var (
	work  = V("work", "trabalhar")
	swim  = V("swim", "nadar")
	study = V("study", "estudar")
	trav  = V("travel", "viajar")
	wait  = V("wait", "esperar")
	car   = P("a car", "um carro")
)

func pillarCatalog() []Pillar {
	return []Pillar{
		{
			ID:    "tobe",
			Title: "To Be",
			Sections: []PillarSection{
				{Title: "Present", Frame: TenseFrame{Present, ToBe{P("happy", "feliz")}}},
				{Title: "Past", Frame: TenseFrame{Past, ToBe{P("at home", "em casa")}}},
				{Title: "Future", Frame: TenseFrame{Future, ToBe{P("a doctor", "um(a) médico(a)")}}},
			},
		},
		{
			ID:    "simple",
			Title: "Simple Tenses",
			Sections: []PillarSection{
				{Title: "Present", Frame: TenseFrame{Present, ActionVerb{work, P("every day", "todos os dias")}}},
				{Title: "Past", Frame: TenseFrame{Past, ActionVerb{work, P("yesterday", "ontem")}}},
				{Title: "Future", Frame: TenseFrame{Future, ActionVerb{work, P("tomorrow", "amanhã")}}},
			},
		},
		{
			ID:    "can",
			Title: "Can / Could",
			Sections: []PillarSection{
				{Title: "Present (Can)", Frame: TenseFrame{Present, Modal{Verb: swim}}},
				{Title: "Past (Could)", Frame: TenseFrame{Past, Modal{Verb: swim}}},
				{Title: "Future (Will be able to)", Frame: TenseFrame{Future, Modal{Verb: swim}}},
			},
		},
		{
			ID:    "have",
			Title: "Have",
			Sections: []PillarSection{
				{Title: "Posse (Presente)", Frame: TenseFrame{Present, HaveSense{Sense: Possession, Object: car}}},
				{Title: "Posse (Passado)", Frame: TenseFrame{Past, HaveSense{Sense: Possession, Object: car}}},
				{Title: "Posse (Futuro)", Frame: TenseFrame{Future, HaveSense{Sense: Possession, Object: car}}},
				{Title: "Obrigação (Presente)", Frame: TenseFrame{Present, HaveSense{Sense: Obligation, Verb: study}}},
				{Title: "Obrigação (Passado)", Frame: TenseFrame{Past, HaveSense{Sense: Obligation, Verb: trav}}},
				{Title: "Obrigação (Futuro)", Frame: TenseFrame{Future, HaveSense{Sense: Obligation, Verb: wait}}},
			},
		},
	}
}

// Pillars returns the pillar catalog in display order. The result is a fresh
// copy on every call.
func Pillars() []Pillar {
	return pillarCatalog()
}

// PillarByID returns the pillar with the given id ("tobe", "simple", "can",
// "have").
func PillarByID(id string) (Pillar, bool) {
	for _, p := range pillarCatalog() {
		if p.ID == id {
			return p, true
		}
	}
	return Pillar{}, false
}
