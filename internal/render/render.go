// Package render turns grammar paradigms and content records into
// presentation fragments. Fragments carry text only; HTML is produced by
// the templates in html.go.
package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Messages shown in place of a tab's content.
const (
	MessageLoading    = "Carregando..."
	MessageFailed     = "Erro ao carregar conteúdo."
	MessageComingSoon = "Conteúdo em breve..."
)

// GeneratedIPA is the transcription shown for generated sentences.
const GeneratedIPA = "..."

// Line is one English sentence with its transcription and translation.
type Line struct {
	Label      string `json:"label,omitempty"`
	English    string `json:"english"`
	IPA        string `json:"ipa,omitempty"`
	Portuguese string `json:"portuguese"`
}

// Item is a searchable unit of a section.
type Item struct {
	Title     string `json:"title,omitempty"`
	Subtitle  string `json:"subtitle,omitempty"`
	Lines     []Line `json:"lines"`
	SearchKey string `json:"search_key"`
}

// Group is a titled run of items. ID is set for groups that can be toggled,
// like the pillars.
type Group struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Items []Item `json:"items"`
}

// Section is the rendered content of one tab.
type Section struct {
	Tab     string  `json:"tab"`
	Title   string  `json:"title"`
	Groups  []Group `json:"groups"`
	Failed  bool    `json:"failed,omitempty"`
	Message string  `json:"message,omitempty"`
}

// ItemCount returns the number of items across every group.
func (s Section) ItemCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Items)
	}
	return n
}

// Failed is the section shown when a tab's content could not be loaded.
func Failed(tab string) Section {
	return Section{Tab: tab, Title: MessageFailed, Failed: true, Message: MessageFailed}
}

// ComingSoon is the section shown for a tab without content.
func ComingSoon(tab string) Section {
	return Section{Tab: tab, Title: MessageComingSoon, Message: MessageComingSoon}
}

var (
	printer = message.NewPrinter(language.BrazilianPortuguese)
	titler  = cases.Title(language.BrazilianPortuguese, cases.NoLower)
)

// counted formats "title (n)" with Portuguese digit grouping.
func counted(title string, n int) string {
	return printer.Sprintf("%s (%d)", title, n)
}

// Capitalize upper-cases the first letter of every word of s.
func Capitalize(s string) string {
	return titler.String(s)
}

func searchKey(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
