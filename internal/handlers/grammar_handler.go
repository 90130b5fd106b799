package handlers

import (
	"net/http"

	"studyapp/internal/grammar"
	"studyapp/internal/observability"
	"studyapp/internal/render"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// GrammarHandler exposes the paradigm generator.
type GrammarHandler struct {
	logger *observability.Logger
}

// NewGrammarHandler creates a new GrammarHandler instance
func NewGrammarHandler(logger *observability.Logger) *GrammarHandler {
	return &GrammarHandler{logger: logger}
}

// FormResponse is one sentence of a paradigm.
type FormResponse struct {
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	English    string `json:"english"`
	Portuguese string `json:"portuguese"`
	Applicable bool   `json:"applicable"`
}

// ParadigmResponse is one generated paradigm.
type ParadigmResponse struct {
	Pronoun      string         `json:"pronoun"`
	Tense        string         `json:"tense"`
	Construction string         `json:"construction"`
	Forms        []FormResponse `json:"forms"`
}

func convertParadigm(p grammar.Paradigm) ParadigmResponse {
	subject := "?"
	if pr, ok := grammar.PronounByID(p.Pronoun); ok {
		subject = pr.Subject
	}
	resp := ParadigmResponse{
		Pronoun:      subject,
		Tense:        p.Tense.String(),
		Construction: p.Kind.String(),
	}
	for _, k := range grammar.FormKinds() {
		f := p.Form(k)
		resp.Forms = append(resp.Forms, FormResponse{
			Kind:       k.String(),
			Label:      k.Label(),
			English:    f.English,
			Portuguese: f.Portuguese,
			Applicable: f.Applicable,
		})
	}
	return resp
}

// GetPillars returns every pillar section.
func (h *GrammarHandler) GetPillars(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_pillars")
	defer observability.FinishSpan(span, nil)

	section := render.Pillars(grammar.Pillars())
	observability.RecordParadigms(ctx, section.ItemCount(), "api")
	c.JSON(http.StatusOK, section)
}

// GetPillar returns a single pillar.
func (h *GrammarHandler) GetPillar(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_pillar",
		observability.AttributePillar(c.Param("pillar")))
	defer observability.FinishSpan(span, nil)

	p, ok := grammar.PillarByID(c.Param("pillar"))
	if !ok {
		HandleAppError(c, contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "unknown pillar %q", c.Param("pillar")))
		return
	}
	section := render.Pillar(p)
	observability.RecordParadigms(ctx, section.ItemCount(), "api")
	c.JSON(http.StatusOK, section)
}

// GetParadigm generates the paradigm described by the query string. Without
// a pronoun parameter every pronoun is returned.
func (h *GrammarHandler) GetParadigm(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_paradigm")
	defer observability.FinishSpan(span, nil)

	var req grammar.FrameRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleValidationError(c, "query", c.Request.URL.RawQuery, err.Error())
		return
	}
	frame, err := grammar.BuildFrame(req)
	if err != nil {
		h.logger.Debug(ctx, "Rejected paradigm request", map[string]interface{}{"error": err.Error()})
		HandleAppError(c, err)
		return
	}

	pronouns := grammar.Pronouns()
	if name := c.Query("pronoun"); name != "" {
		p, ok := grammar.ParsePronoun(name)
		if !ok {
			HandleValidationError(c, "pronoun", name, "expected one of I, you, he, she, it, we, they")
			return
		}
		pronouns = []grammar.Pronoun{p}
	}

	out := make([]ParadigmResponse, 0, len(pronouns))
	for _, p := range pronouns {
		out = append(out, convertParadigm(grammar.Generate(p, frame)))
	}
	observability.RecordParadigms(ctx, len(out), "api")
	c.JSON(http.StatusOK, gin.H{"paradigms": out})
}
