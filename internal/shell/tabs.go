package shell

import "studyapp/internal/render"

// Tab is one entry of the navigation bar.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Tabs of the grammar document rendered as plain item lists.
var listTabs = map[string]bool{
	"perguntas":      true,
	"artigos":        true,
	"adjetivos":      true,
	"numeros":        true,
	"nacionalidades": true,
	"profissoes":     true,
	"continuous":     true,
	"perfect":        true,
	"modais":         true,
}

// DefaultTabs returns the navigation bar in display order.
func DefaultTabs() []Tab {
	return []Tab{
		{ID: render.TabPillars, Label: "Pilares"},
		{ID: render.TabRegular, Label: "Verbos Regulares"},
		{ID: render.TabIrregular, Label: "Verbos Irregulares"},
		{ID: render.TabConversations, Label: "Conversações"},
		{ID: "perguntas", Label: "Perguntas"},
		{ID: render.TabPrepositions, Label: "Preposições"},
		{ID: render.TabPhrasalVerbs, Label: "Phrasal Verbs"},
		{ID: "artigos", Label: "Artigos"},
		{ID: "adjetivos", Label: "Adjetivos"},
		{ID: "numeros", Label: "Números"},
		{ID: "nacionalidades", Label: "Nacionalidades"},
		{ID: "profissoes", Label: "Profissões"},
		{ID: "continuous", Label: "Continuous"},
		{ID: "perfect", Label: "Perfect"},
		{ID: "modais", Label: "Modais"},
	}
}

// IsListTab reports whether id is rendered from a generic grammar list.
func IsListTab(id string) bool { return listTabs[id] }
