// Package content loads the study documents (verbs, conversations and
// grammar lists) from an embedded, directory or HTTP source.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"

	contextutils "studyapp/internal/utils"
)

// Document names as published next to the page.
const (
	DocumentVerbs         = "verbos.json"
	DocumentConversations = "conversacoes.json"
	DocumentGrammar       = "gramatica.json"
)

// Documents lists every document the repository knows how to load.
func Documents() []string {
	return []string{DocumentVerbs, DocumentConversations, DocumentGrammar}
}

// Verb types
const (
	VerbRegular   = "regular"
	VerbIrregular = "irregular"
)

// Item is one English line with its transcription and translation.
type Item struct {
	Eng string `json:"eng" validate:"required"`
	IPA string `json:"ipa,omitempty"`
	Por string `json:"por" validate:"required"`
}

// Verb is a row of verbos.json.
type Verb struct {
	Infinitive     string `json:"infinitive" validate:"required"`
	Past           string `json:"past" validate:"required"`
	Participle     string `json:"participle" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=regular irregular"`
	Translation    string `json:"translation" validate:"required"`
	PresentExample Item   `json:"present_example"`
	PastExample    Item   `json:"past_example"`
}

// ConversationLine is an Item optionally attributed to a speaker.
type ConversationLine struct {
	Speaker string `json:"speaker,omitempty"`
	Item
}

// Conversation is a titled dialogue.
type Conversation struct {
	Title string             `json:"title" validate:"required"`
	Lines []ConversationLine `json:"lines" validate:"required,min=1,dive"`
}

// PhrasalVerb is a row of the phrasalverbs list.
type PhrasalVerb struct {
	Verb       string `json:"verb" validate:"required"`
	Meaning    string `json:"meaning" validate:"required"`
	ExampleEng string `json:"example_eng" validate:"required"`
	ExamplePor string `json:"example_por" validate:"required"`
	IPA        string `json:"ipa,omitempty"`
}

// Category is a named group of prepositions.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Categories keeps preposition categories in document order.
type Categories []Category

// UnmarshalJSON decodes a JSON object of category -> items, preserving the
// order in which the keys appear.
func (c *Categories) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	var out Categories
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("categories: expected key, got %v", tok)
		}
		var items []Item
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("categories: %s: %w", name, err)
		}
		out = append(out, Category{Name: name, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// MarshalJSON writes the categories back as an ordered object.
func (c Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		items := cat.Items
		if items == nil {
			items = []Item{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Grammar is the decoded gramatica.json.
type Grammar struct {
	Prepositions Categories
	PhrasalVerbs []PhrasalVerb
	// Lists holds every other key of the document, each a list of Items.
	Lists map[string][]Item
}

const (
	keyPrepositions = "preposicoes"
	keyPhrasalVerbs = "phrasalverbs"
)

// UnmarshalJSON routes the two structured keys to their own types and
// treats every remaining key as an Item list.
func (g *Grammar) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Grammar{Lists: make(map[string][]Item)}
	for key, val := range raw {
		switch key {
		case keyPrepositions:
			if err := json.Unmarshal(val, &out.Prepositions); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		case keyPhrasalVerbs:
			if err := json.Unmarshal(val, &out.PhrasalVerbs); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		default:
			var items []Item
			if err := json.Unmarshal(val, &items); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out.Lists[key] = items
		}
	}
	*g = out
	return nil
}

// MarshalJSON flattens the grammar back into a single object.
func (g Grammar) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(g.Lists)+2)
	for k, v := range g.Lists {
		doc[k] = v
	}
	if g.Prepositions != nil {
		doc[keyPrepositions] = g.Prepositions
	}
	if g.PhrasalVerbs != nil {
		doc[keyPhrasalVerbs] = g.PhrasalVerbs
	}
	return json.Marshal(doc)
}

// List returns the generic list stored under name.
func (g Grammar) List(name string) ([]Item, bool) {
	items, ok := g.Lists[name]
	return items, ok
}

// FilterVerbs returns the verbs of the given type in document order.
func FilterVerbs(verbs []Verb, verbType string) []Verb {
	out := make([]Verb, 0, len(verbs))
	for _, v := range verbs {
		if v.Type == verbType {
			out = append(out, v)
		}
	}
	return out
}

// ValidateVerbs checks every record of the verbs document.
func ValidateVerbs(verbs []Verb) error {
	for i := range verbs {
		if err := contextutils.ValidateStruct(verbs[i]); err != nil {
			return contextutils.WrapErrorf(err, "%s[%d]", DocumentVerbs, i)
		}
	}
	return nil
}

// ValidateConversations checks every conversation and its lines.
func ValidateConversations(convos []Conversation) error {
	for i := range convos {
		if err := contextutils.ValidateStruct(convos[i]); err != nil {
			return contextutils.WrapErrorf(err, "%s[%d]", DocumentConversations, i)
		}
	}
	return nil
}

// ValidateGrammar checks the records of every list in the grammar document.
func ValidateGrammar(g Grammar) error {
	for _, cat := range g.Prepositions {
		for i := range cat.Items {
			if err := contextutils.ValidateStruct(cat.Items[i]); err != nil {
				return contextutils.WrapErrorf(err, "%s.%s[%d]", keyPrepositions, cat.Name, i)
			}
		}
	}
	for i := range g.PhrasalVerbs {
		if err := contextutils.ValidateStruct(g.PhrasalVerbs[i]); err != nil {
			return contextutils.WrapErrorf(err, "%s[%d]", keyPhrasalVerbs, i)
		}
	}
	for name, items := range g.Lists {
		for i := range items {
			if err := contextutils.ValidateStruct(items[i]); err != nil {
				return contextutils.WrapErrorf(err, "%s[%d]", name, i)
			}
		}
	}
	return nil
}
