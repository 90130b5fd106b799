package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyapp/internal/config"
	"studyapp/internal/content"
	"studyapp/internal/middleware"
	"studyapp/internal/shell"
	"studyapp/internal/speech"
	"studyapp/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newTestRouter(t *testing.T) *testClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.IsTest = true
	schemas, err := middleware.LoadSchemas()
	require.NoError(t, err)

	repo := content.NewRepository(content.Embedded(), nil)
	registry := shell.NewRegistry(shell.Deps{
		Content: repo,
		Store:   store.NewMemoryStore(),
		Synth:   speech.Disabled{},
	}, cfg.Server.SessionTTL)

	router := NewRouter(cfg, RouterDeps{
		Content:  repo,
		Registry: registry,
		Schemas:  schemas,
		Limiter:  middleware.NewRateLimiter(100, 100),
	}, nil)
	return &testClient{t: t, router: router}
}

// do sends a request carrying the cookies of earlier responses.
func (tc *testClient) do(method, path, body string) *httptest.ResponseRecorder {
	tc.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)
	if got := w.Result().Cookies(); len(got) > 0 {
		tc.cookies = got
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestRouter_Health(t *testing.T) {
	tc := newTestRouter(t)
	w := tc.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_Page(t *testing.T) {
	tc := newTestRouter(t)
	w := tc.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `data-tab="pilares"`)
	assert.Contains(t, w.Body.String(), "theme-light")
	assert.NotEmpty(t, tc.cookies, "session cookie issued")

	w = tc.do(http.MethodGet, "/assets/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_TabsAndSearch(t *testing.T) {
	tc := newTestRouter(t)

	var tabs struct {
		Active string            `json:"active"`
		Tabs   []shell.TabStatus `json:"tabs"`
	}
	w := tc.do(http.MethodGet, "/v1/tabs", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &tabs)
	assert.Equal(t, "pilares", tabs.Active)
	require.Len(t, tabs.Tabs, len(shell.DefaultTabs()))
	assert.True(t, tabs.Tabs[0].Active)

	w = tc.do(http.MethodGet, "/v1/tabs/irregulares", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = tc.do(http.MethodGet, "/v1/tabs/irregulares/html", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "data-search-term")

	w = tc.do(http.MethodGet, "/v1/tabs", "")
	decode(t, w, &tabs)
	assert.Equal(t, "irregulares", tabs.Active)

	var res SearchResponse
	w = tc.do(http.MethodGet, "/v1/search?q=WENT", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, "WENT", res.Query)
	assert.Positive(t, res.Total)

	w = tc.do(http.MethodGet, "/v1/tabs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Preferences(t *testing.T) {
	tc := newTestRouter(t)

	var prefs store.Preferences
	w := tc.do(http.MethodGet, "/v1/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &prefs)
	assert.Equal(t, store.DefaultPreferences(), prefs)

	w = tc.do(http.MethodPost, "/v1/preferences/theme/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &prefs)
	assert.Equal(t, store.ThemeDark, prefs.Theme)

	w = tc.do(http.MethodPost, "/v1/preferences/translations/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &prefs)
	assert.False(t, prefs.ShowTranslations)

	// The same session keeps the toggled values.
	w = tc.do(http.MethodGet, "/", "")
	assert.Contains(t, w.Body.String(), "theme-dark")

	w = tc.do(http.MethodPut, "/v1/preferences", `{"theme":"sepia","showTranslations":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodPut, "/v1/preferences", `{"theme":"light","showTranslations":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &prefs)
	assert.Equal(t, store.DefaultPreferences(), prefs)
}

func TestRouter_Paradigm(t *testing.T) {
	tc := newTestRouter(t)

	var body struct {
		Paradigms []ParadigmResponse `json:"paradigms"`
	}
	w := tc.do(http.MethodGet, "/v1/paradigm?tense=present&construction=action_verb&verb=work&verb_pt=trabalhar&pronoun=she", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &body)
	require.Len(t, body.Paradigms, 1)
	assert.Equal(t, "She works.", body.Paradigms[0].Forms[0].English)

	w = tc.do(http.MethodGet, "/v1/paradigm?tense=present&construction=action_verb&verb=work", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Len(t, body.Paradigms, 7)

	tests := []struct {
		name  string
		query string
	}{
		{"unknown tense", "tense=someday&construction=modal&verb=go"},
		{"unknown construction", "tense=past&construction=passive&verb=go"},
		{"missing verb", "tense=past&construction=modal"},
		{"unknown pronoun", "tense=past&construction=modal&verb=go&pronoun=thou"},
		{"irregular past", "tense=past&construction=action_verb&verb=go"},
		{"be as action verb", "tense=present&construction=action_verb&verb=be"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tc.do(http.MethodGet, "/v1/paradigm?"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRouter_ContentEndpoints(t *testing.T) {
	tc := newTestRouter(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/v1/pillars", http.StatusOK},
		{"/v1/pillars/tobe", http.StatusOK},
		{"/v1/pillars/nope", http.StatusNotFound},
		{"/v1/verbs/regular", http.StatusOK},
		{"/v1/verbs/irregular", http.StatusOK},
		{"/v1/verbs/modal", http.StatusBadRequest},
		{"/v1/conversations", http.StatusOK},
		{"/v1/grammar/preposicoes", http.StatusOK},
		{"/v1/grammar/phrasalverbs", http.StatusOK},
		{"/v1/grammar/perguntas", http.StatusOK},
		{"/v1/grammar/nope", http.StatusNotFound},
		{"/v1/version", http.StatusOK},
		{"/v1/nothing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := tc.do(http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRouter_Speech(t *testing.T) {
	tc := newTestRouter(t)

	w := tc.do(http.MethodPost, "/v1/speech", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodPost, "/v1/speech", `{"text":"hello","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = tc.do(http.MethodPost, "/v1/speech", `{"text":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "SPEECH_UNAVAILABLE")
}

func TestRouter_EveryV1RouteIsDocumented(t *testing.T) {
	tc := newTestRouter(t)

	var listing struct {
		Count  int         `json:"count"`
		Routes []RouteInfo `json:"routes"`
	}
	w := tc.do(http.MethodGet, "/v1/routes", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listing)
	require.Positive(t, listing.Count)

	for _, r := range listing.Routes {
		if strings.HasPrefix(r.Path, "/v1/") {
			assert.True(t, r.Documented, "%s %s", r.Method, r.Path)
		}
	}
}

func TestRouter_LocalizedErrors(t *testing.T) {
	tc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/tabs/nope", nil)
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	w := httptest.NewRecorder()
	tc.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "TAB_NOT_FOUND", body["code"])
	assert.Equal(t, "Aba não encontrada", body["localized_message"])
}
