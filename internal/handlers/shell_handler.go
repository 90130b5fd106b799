package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"studyapp/internal/middleware"
	"studyapp/internal/observability"
	"studyapp/internal/render"
	"studyapp/internal/search"
	"studyapp/internal/shell"
	"studyapp/internal/speech"
	"studyapp/internal/store"
	contextutils "studyapp/internal/utils"

	"github.com/gin-gonic/gin"
)

// ShellHandler serves the per-session view: page, tabs, search,
// preferences and speech.
type ShellHandler struct {
	registry *shell.Registry
	logger   *observability.Logger
}

// NewShellHandler creates a new ShellHandler instance
func NewShellHandler(registry *shell.Registry, logger *observability.Logger) *ShellHandler {
	return &ShellHandler{registry: registry, logger: logger}
}

// SpeechRequest is the body of POST /v1/speech.
type SpeechRequest struct {
	Text string `json:"text" binding:"required"`
}

// SearchResponse is the body of GET /v1/search.
type SearchResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Results []search.Result `json:"results"`
}

type pageData struct {
	Tabs        []shell.TabStatus
	Active      string
	Section     template.HTML
	Preferences store.Preferences
}

func (h *ShellHandler) shell(c *gin.Context) (*shell.Shell, bool) {
	sh, err := h.registry.Get(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to resolve session shell", err)
		HandleAppError(c, err)
		return nil, false
	}
	return sh, true
}

// GetPage renders the page shell with the active tab already filled in.
func (h *ShellHandler) GetPage(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "get_page")
	defer observability.FinishSpan(span, nil)

	sh, ok := h.shell(c)
	if !ok {
		return
	}
	active := sh.ActiveTab()
	section, err := sh.Activate(ctx, active)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	fragment, err := render.HTMLString(section)
	if err != nil {
		HandleAppError(c, contextutils.WrapError(err, "failed to render section"))
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", pageData{
		Tabs:        sh.Tabs(),
		Active:      active,
		Section:     template.HTML(fragment),
		Preferences: sh.Preferences(),
	}); err != nil {
		HandleAppError(c, contextutils.WrapError(err, "failed to render page"))
		return
	}
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetTabs lists every tab with its active mark and render state.
func (h *ShellHandler) GetTabs(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": sh.ActiveTab(), "tabs": sh.Tabs()})
}

func (h *ShellHandler) activate(c *gin.Context) (render.Section, bool) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "activate_tab",
		observability.AttributeTab(c.Param("tab")))
	defer observability.FinishSpan(span, nil)

	sh, ok := h.shell(c)
	if !ok {
		return render.Section{}, false
	}
	section, err := sh.Activate(ctx, c.Param("tab"))
	if err != nil {
		HandleAppError(c, err)
		return render.Section{}, false
	}
	return section, true
}

// GetTab activates a tab and returns its section as JSON.
func (h *ShellHandler) GetTab(c *gin.Context) {
	section, ok := h.activate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, section)
}

// GetTabHTML activates a tab and returns its section as an HTML fragment.
func (h *ShellHandler) GetTabHTML(c *gin.Context) {
	section, ok := h.activate(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, section); err != nil {
		HandleAppError(c, contextutils.WrapError(err, "failed to render section"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Search filters every rendered tab of the session by the q parameter.
func (h *ShellHandler) Search(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	q := c.Query("q")
	results := sh.Search(c.Request.Context(), q)
	total := 0
	for _, r := range results {
		total += r.Matches
	}
	c.JSON(http.StatusOK, SearchResponse{Query: q, Total: total, Results: results})
}

// GetPreferences returns the session preferences.
func (h *ShellHandler) GetPreferences(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sh.Preferences())
}

// PutPreferences replaces the session preferences.
func (h *ShellHandler) PutPreferences(c *gin.Context) {
	var req store.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "preferences", "", err.Error())
		return
	}
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	prefs, err := sh.SetPreferences(c.Request.Context(), req)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ToggleTheme flips the theme.
func (h *ShellHandler) ToggleTheme(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	prefs, err := sh.ToggleTheme(c.Request.Context())
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// ToggleTranslations flips translation visibility.
func (h *ShellHandler) ToggleTranslations(c *gin.Context) {
	sh, ok := h.shell(c)
	if !ok {
		return
	}
	prefs, err := sh.ToggleTranslations(c.Request.Context())
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Speak synthesizes the posted text as audio/wav. A new request from the
// same session cancels the previous one.
func (h *ShellHandler) Speak(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "speak")
	defer observability.FinishSpan(span, nil)

	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleValidationError(c, "text", "", err.Error())
		return
	}
	text, err := speech.CheckText(req.Text)
	if err != nil {
		HandleAppError(c, err)
		return
	}
	sh, ok := h.shell(c)
	if !ok {
		return
	}

	audio, err := sh.Speak(ctx, text)
	switch {
	case err == nil:
		observability.RecordSpeechRequest(ctx, "ok")
	case ctx.Err() != nil:
		observability.RecordSpeechRequest(ctx, "canceled")
	default:
		observability.RecordSpeechRequest(ctx, "error")
	}
	if err != nil {
		HandleAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "audio/wav", audio)
}
