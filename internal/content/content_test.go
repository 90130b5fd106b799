package content

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	contextutils "studyapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_PreserveOrder(t *testing.T) {
	raw := `{"tempo":[{"eng":"at noon","por":"ao meio-dia"}],"lugar":[],"movimento":[{"eng":"to","por":"para"}]}`

	var cats Categories
	require.NoError(t, json.Unmarshal([]byte(raw), &cats))
	require.Len(t, cats, 3)
	assert.Equal(t, "tempo", cats[0].Name)
	assert.Equal(t, "lugar", cats[1].Name)
	assert.Equal(t, "movimento", cats[2].Name)
	assert.Empty(t, cats[1].Items)

	out, err := json.Marshal(cats)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Less(t, strings.Index(string(out), "tempo"), strings.Index(string(out), "movimento"))
}

func TestCategories_RejectsNonObject(t *testing.T) {
	var cats Categories
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &cats))
	assert.Error(t, json.Unmarshal([]byte(`{"tempo": "x"}`), &cats))
}

func TestGrammar_Unmarshal(t *testing.T) {
	raw := `{
		"preposicoes": {"lugar": [{"eng": "in", "por": "em"}]},
		"phrasalverbs": [{"verb": "give up", "meaning": "desistir", "example_eng": "Don't give up.", "example_por": "Não desista."}],
		"numeros": [{"eng": "one", "por": "um"}]
	}`

	var g Grammar
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	require.Len(t, g.Prepositions, 1)
	assert.Equal(t, "lugar", g.Prepositions[0].Name)
	require.Len(t, g.PhrasalVerbs, 1)
	assert.Equal(t, "desistir", g.PhrasalVerbs[0].Meaning)

	numeros, ok := g.List("numeros")
	require.True(t, ok)
	assert.Equal(t, []Item{{Eng: "one", Por: "um"}}, numeros)

	_, ok = g.List("preposicoes")
	assert.False(t, ok)

	var bad Grammar
	assert.Error(t, json.Unmarshal([]byte(`{"numeros": {"one": 1}}`), &bad))
}

func TestFilterVerbs(t *testing.T) {
	verbs := []Verb{
		{Infinitive: "work", Type: VerbRegular},
		{Infinitive: "go", Type: VerbIrregular},
		{Infinitive: "play", Type: VerbRegular},
	}
	regular := FilterVerbs(verbs, VerbRegular)
	require.Len(t, regular, 2)
	assert.Equal(t, "work", regular[0].Infinitive)
	assert.Equal(t, "play", regular[1].Infinitive)
	assert.Empty(t, FilterVerbs(verbs, "modal"))
}

func TestValidateRecords(t *testing.T) {
	err := ValidateVerbs([]Verb{{Infinitive: "go", Past: "went", Participle: "gone", Type: "strange", Translation: "ir",
		PresentExample: Item{Eng: "I go.", Por: "Eu vou."}, PastExample: Item{Eng: "I went.", Por: "Eu fui."}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contextutils.ErrValidationFailed))
	assert.Contains(t, err.Error(), "verbos.json[0]")

	err = ValidateConversations([]Conversation{{Title: "Empty"}})
	require.Error(t, err)

	err = ValidateConversations([]Conversation{{Title: "Hi", Lines: []ConversationLine{{Item: Item{Eng: "Hi"}}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Por")

	err = ValidateGrammar(Grammar{Lists: map[string][]Item{"numeros": {{Eng: "one"}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeros[0]")

	assert.NoError(t, ValidateGrammar(Grammar{Lists: map[string][]Item{"numeros": {{Eng: "one", Por: "um"}}}}))
}
