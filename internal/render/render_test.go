package render

import (
	"strings"
	"testing"

	"studyapp/internal/content"
	"studyapp/internal/grammar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPillars(t *testing.T) {
	s := Pillars(grammar.Pillars())
	assert.Equal(t, TabPillars, s.Tab)
	require.Len(t, s.Groups, 15)
	assert.Equal(t, "tobe", s.Groups[0].ID)
	assert.Equal(t, "To Be: Present", s.Groups[0].Title)
	assert.Equal(t, 15*7, s.ItemCount())

	she := s.Groups[3].Items[grammar.PronounShe]
	assert.Equal(t, "Pronome: She", she.Title)
	require.Len(t, she.Lines, 5)
	assert.Equal(t, "Afirmativa", she.Lines[0].Label)
	assert.Equal(t, "She works every day.", she.Lines[0].English)
	assert.Equal(t, GeneratedIPA, she.Lines[0].IPA)
	assert.Equal(t, "Abreviada (Negativa)", she.Lines[4].Label)
	assert.Contains(t, she.SearchKey, "Does she work every day?")
	assert.Contains(t, she.SearchKey, "Ela trabalha todos os dias.")
}

func TestPillar(t *testing.T) {
	have, ok := grammar.PillarByID("have")
	require.True(t, ok)
	s := Pillar(have)
	assert.Equal(t, "Have", s.Title)
	require.Len(t, s.Groups, 6)
	for _, g := range s.Groups {
		assert.Equal(t, "have", g.ID)
		assert.Len(t, g.Items, 7)
	}
}

func TestParadigmItem_NotApplicable(t *testing.T) {
	she, _ := grammar.PronounByID(grammar.PronounShe)
	item := ParadigmItem(grammar.Generate(she, grammar.TenseFrame{Tense: grammar.Present}))
	for _, l := range item.Lines {
		assert.Equal(t, grammar.NotApplicableEnglish, l.English)
	}
	assert.Empty(t, item.SearchKey)
}

func TestVerbs(t *testing.T) {
	verbs := []content.Verb{
		{Infinitive: "work", Past: "worked", Participle: "worked", Type: content.VerbRegular, Translation: "trabalhar",
			PresentExample: content.Item{Eng: "I work.", IPA: "aɪ wɜːrk", Por: "Eu trabalho."},
			PastExample:    content.Item{Eng: "I worked.", Por: "Eu trabalhei."}},
		{Infinitive: "go", Past: "went", Participle: "gone", Type: content.VerbIrregular, Translation: "ir"},
	}

	s := Verbs(TabRegular, verbs, content.VerbRegular)
	assert.Equal(t, "Verbos Regulares (1)", s.Title)
	require.Equal(t, 1, s.ItemCount())
	item := s.Groups[0].Items[0]
	assert.Equal(t, "work / worked / worked", item.Title)
	assert.Equal(t, "trabalhar", item.Subtitle)
	assert.Equal(t, "work worked worked trabalhar", item.SearchKey)
	assert.Equal(t, Line{Label: "Presente", English: "I work.", IPA: "aɪ wɜːrk", Portuguese: "Eu trabalho."}, item.Lines[0])

	irregular := Verbs(TabIrregular, verbs, content.VerbIrregular)
	assert.Equal(t, "Verbos Irregulares (1)", irregular.Title)
	assert.Equal(t, TabIrregular, irregular.Tab)
}

func TestCountedUsesPortugueseGrouping(t *testing.T) {
	assert.Equal(t, "Phrasal Verbs (1.234)", counted("Phrasal Verbs", 1234))
}

func TestConversations(t *testing.T) {
	s := Conversations([]content.Conversation{{
		Title: "No aeroporto",
		Lines: []content.ConversationLine{
			{Speaker: "A", Item: content.Item{Eng: "Hello.", Por: "Olá."}},
			{Item: content.Item{Eng: "Hi.", Por: "Oi."}},
		},
	}})
	assert.Equal(t, "Conversações (1)", s.Title)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, "No aeroporto", s.Groups[0].Title)
	require.Len(t, s.Groups[0].Items, 2)
	assert.Equal(t, "A", s.Groups[0].Items[0].Lines[0].Label)
	assert.Equal(t, "Hello. Olá.", s.Groups[0].Items[0].SearchKey)
}

func TestPhrasalVerbs(t *testing.T) {
	s := PhrasalVerbs([]content.PhrasalVerb{{Verb: "give up", Meaning: "desistir", ExampleEng: "Don't give up.", ExamplePor: "Não desista.", IPA: "ɡɪv ʌp"}})
	assert.Equal(t, "Phrasal Verbs (1)", s.Title)
	item := s.Groups[0].Items[0]
	assert.Equal(t, "give up", item.Title)
	assert.Equal(t, "Significado: desistir", item.Subtitle)
	assert.Contains(t, item.SearchKey, "desistir")
	assert.Equal(t, "ɡɪv ʌp", item.Lines[0].IPA)
}

func TestPrepositionsAndLists(t *testing.T) {
	s := Prepositions(content.Categories{
		{Name: "tempo", Items: []content.Item{{Eng: "at noon", Por: "ao meio-dia"}}},
		{Name: "lugar", Items: []content.Item{{Eng: "in", Por: "em"}}},
	})
	require.Len(t, s.Groups, 2)
	assert.Equal(t, "Tempo", s.Groups[0].Title)
	assert.Equal(t, "Lugar", s.Groups[1].Title)

	l := List("nacionalidades", []content.Item{{Eng: "I am Brazilian.", Por: "Eu sou brasileiro."}})
	assert.Equal(t, "Nacionalidades", l.Title)
	assert.Equal(t, 1, l.ItemCount())
}

func TestPlaceholders(t *testing.T) {
	f := Failed("verbos")
	assert.True(t, f.Failed)
	assert.Equal(t, "Erro ao carregar conteúdo.", f.Message)

	c := ComingSoon("extras")
	assert.False(t, c.Failed)
	assert.Equal(t, "Conteúdo em breve...", c.Message)
}

func TestHTML(t *testing.T) {
	s := List("perguntas", []content.Item{{Eng: "<b>Where</b> are you?", IPA: "wɛr", Por: "Onde você está?"}})
	out, err := HTMLString(s)
	require.NoError(t, err)
	assert.Contains(t, out, `data-tab="perguntas"`)
	assert.Contains(t, out, "<h2>Perguntas</h2>")
	assert.Contains(t, out, "&lt;b&gt;Where&lt;/b&gt; are you?")
	assert.NotContains(t, out, "<b>Where</b>")
	assert.Contains(t, out, "[wɛr]")
	assert.Contains(t, out, "Onde você está?")

	failed, err := HTMLString(Failed("verbos"))
	require.NoError(t, err)
	assert.Contains(t, failed, `<h2 class="error">Erro ao carregar conteúdo.</h2>`)
	assert.False(t, strings.Contains(failed, "content-item"))
}
