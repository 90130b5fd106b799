package render

import (
	"studyapp/internal/content"
	"studyapp/internal/grammar"
)

// Tab identifiers whose renderer is fixed.
const (
	TabPillars       = "pilares"
	TabRegular       = "regulares"
	TabIrregular     = "irregulares"
	TabConversations = "conversacoes"
	TabPrepositions  = "preposicoes"
	TabPhrasalVerbs  = "phrasalverbs"
)

// Pillars renders every section of every pillar: one group per section,
// one item per pronoun, one line per sentence form.
func Pillars(pillars []grammar.Pillar) Section {
	s := Section{Tab: TabPillars, Title: "Pilares"}
	for _, p := range pillars {
		for _, ps := range p.Sections {
			s.Groups = append(s.Groups, Group{
				ID:    p.ID,
				Title: p.Title + ": " + ps.Title,
				Items: paradigmItems(ps.Paradigms()),
			})
		}
	}
	return s
}

// Pillar renders a single pillar.
func Pillar(p grammar.Pillar) Section {
	s := Pillars([]grammar.Pillar{p})
	s.Title = p.Title
	return s
}

func paradigmItems(paradigms []grammar.Paradigm) []Item {
	items := make([]Item, 0, len(paradigms))
	for _, par := range paradigms {
		items = append(items, ParadigmItem(par))
	}
	return items
}

// ParadigmItem renders the five forms of a paradigm under its pronoun.
func ParadigmItem(par grammar.Paradigm) Item {
	subject := "?"
	if p, ok := grammar.PronounByID(par.Pronoun); ok {
		subject = p.Subject
	}

	item := Item{Title: "Pronome: " + subject}
	keys := make([]string, 0, 2*len(grammar.FormKinds()))
	for _, k := range grammar.FormKinds() {
		f := par.Form(k)
		item.Lines = append(item.Lines, Line{
			Label:      k.Label(),
			English:    f.English,
			IPA:        GeneratedIPA,
			Portuguese: f.Portuguese,
		})
		if f.Applicable {
			keys = append(keys, f.English, f.Portuguese)
		}
	}
	item.SearchKey = searchKey(keys...)
	return item
}

// Verbs renders the verbs of one type.
func Verbs(tab string, verbs []content.Verb, verbType string) Section {
	filtered := content.FilterVerbs(verbs, verbType)
	title := "Verbos Regulares"
	if verbType == content.VerbIrregular {
		title = "Verbos Irregulares"
	}

	items := make([]Item, 0, len(filtered))
	for _, v := range filtered {
		items = append(items, Item{
			Title:    v.Infinitive + " / " + v.Past + " / " + v.Participle,
			Subtitle: v.Translation,
			Lines: []Line{
				itemLine("Presente", v.PresentExample),
				itemLine("Passado", v.PastExample),
			},
			SearchKey: searchKey(v.Infinitive, v.Past, v.Participle, v.Translation),
		})
	}
	return Section{Tab: tab, Title: counted(title, len(filtered)), Groups: []Group{{Items: items}}}
}

// Conversations renders one group per dialogue and one item per line.
func Conversations(convos []content.Conversation) Section {
	s := Section{Tab: TabConversations, Title: counted("Conversações", len(convos))}
	for _, c := range convos {
		g := Group{Title: c.Title}
		for _, l := range c.Lines {
			g.Items = append(g.Items, Item{
				Lines:     []Line{itemLine(l.Speaker, l.Item)},
				SearchKey: searchKey(l.Eng, l.Por),
			})
		}
		s.Groups = append(s.Groups, g)
	}
	return s
}

// PhrasalVerbs renders the phrasal verb list.
func PhrasalVerbs(pvs []content.PhrasalVerb) Section {
	items := make([]Item, 0, len(pvs))
	for _, pv := range pvs {
		items = append(items, Item{
			Title:    pv.Verb,
			Subtitle: "Significado: " + pv.Meaning,
			Lines: []Line{{
				English:    pv.ExampleEng,
				IPA:        pv.IPA,
				Portuguese: pv.ExamplePor,
			}},
			SearchKey: searchKey(pv.Verb, pv.Meaning, pv.ExampleEng, pv.ExamplePor),
		})
	}
	return Section{Tab: TabPhrasalVerbs, Title: counted("Phrasal Verbs", len(pvs)), Groups: []Group{{Items: items}}}
}

// Prepositions renders one group per category in document order.
func Prepositions(cats content.Categories) Section {
	s := Section{Tab: TabPrepositions, Title: "Preposições"}
	for _, c := range cats {
		s.Groups = append(s.Groups, Group{Title: Capitalize(c.Name), Items: plainItems(c.Items)})
	}
	return s
}

// List renders a generic item list titled by the capitalised tab name.
func List(tab string, items []content.Item) Section {
	return Section{Tab: tab, Title: Capitalize(tab), Groups: []Group{{Items: plainItems(items)}}}
}

func plainItems(src []content.Item) []Item {
	items := make([]Item, 0, len(src))
	for _, it := range src {
		items = append(items, Item{
			Lines:     []Line{itemLine("", it)},
			SearchKey: searchKey(it.Eng, it.Por),
		})
	}
	return items
}

func itemLine(label string, it content.Item) Line {
	return Line{Label: label, English: it.Eng, IPA: it.IPA, Portuguese: it.Por}
}
