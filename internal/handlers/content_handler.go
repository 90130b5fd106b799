package handlers

import (
	"net/http"

	"studyapp/internal/content"
	"studyapp/internal/observability"
	"studyapp/internal/render"
	"studyapp/internal/shell"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// ContentHandler serves the study documents outside any session.
type ContentHandler struct {
	content shell.ContentProvider
	logger  *observability.Logger
}

// NewContentHandler creates a new ContentHandler instance
func NewContentHandler(provider shell.ContentProvider, logger *observability.Logger) *ContentHandler {
	return &ContentHandler{content: provider, logger: logger}
}

// GetVerbs returns the verbs of the type in the path, "regular" or
// "irregular".
func (h *ContentHandler) GetVerbs(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_verbs")
	defer observability.FinishSpan(span, nil)

	verbType := c.Param("type")
	tab := render.TabRegular
	switch verbType {
	case content.VerbRegular:
	case content.VerbIrregular:
		tab = render.TabIrregular
	default:
		HandleValidationError(c, "type", verbType, "expected regular or irregular")
		return
	}

	verbs, err := h.content.Verbs(ctx)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.Verbs(tab, verbs, verbType))
}

// GetConversations returns every dialogue.
func (h *ContentHandler) GetConversations(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_conversations")
	defer observability.FinishSpan(span, nil)

	convos, err := h.content.Conversations(ctx)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, render.Conversations(convos))
}

// GetGrammarList returns one list of gramatica.json.
func (h *ContentHandler) GetGrammarList(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_grammar_list",
		observability.AttributeTab(c.Param("list")))
	defer observability.FinishSpan(span, nil)

	g, err := h.content.Grammar(ctx)
	if err != nil {
		HandleAppError(c, err)
		return
	}

	name := c.Param("list")
	switch name {
	case render.TabPrepositions:
		c.JSON(http.StatusOK, render.Prepositions(g.Prepositions))
		return
	case render.TabPhrasalVerbs:
		c.JSON(http.StatusOK, render.PhrasalVerbs(g.PhrasalVerbs))
		return
	}
	items, ok := g.List(name)
	if !ok {
		HandleAppError(c, contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "unknown grammar list %q", name))
		return
	}
	c.JSON(http.StatusOK, render.List(name, items))
}
