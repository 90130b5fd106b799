// Package shell holds the per-session view state: which tab is active,
// which tabs have been rendered, and the user's preferences.
package shell

import (
	"context"
	"errors"
	"sync"

	"studyapp/internal/config"
	"studyapp/internal/content"
	"studyapp/internal/grammar"
	"studyapp/internal/observability"
	"studyapp/internal/render"
	"studyapp/internal/search"
	"studyapp/internal/speech"
	"studyapp/internal/store"
	contextutils "studyapp/internal/utils"

	"golang.org/x/sync/singleflight"
)

// RenderState tracks whether a tab's section has been built.
type RenderState int

// Render states. A tab that is not the active one is Inactive regardless of
// its render state; see TabStatus.Active.
const (
	Unrendered RenderState = iota
	Rendered
)

func (s RenderState) String() string {
	if s == Rendered {
		return "rendered"
	}
	return "unrendered"
}

// MarshalText encodes the state as its name.
func (s RenderState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *RenderState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "rendered":
		*s = Rendered
	case "unrendered":
		*s = Unrendered
	default:
		return contextutils.WrapErrorf(contextutils.ErrInvalidFormat, "unknown render state %q", text)
	}
	return nil
}

// TabStatus describes one tab of the navigation bar.
type TabStatus struct {
	Tab
	Active bool        `json:"active"`
	State  RenderState `json:"state"`
}

// ContentProvider supplies the decoded documents. *content.Repository
// satisfies it.
type ContentProvider interface {
	Verbs(ctx context.Context) ([]content.Verb, error)
	Conversations(ctx context.Context) ([]content.Conversation, error)
	Grammar(ctx context.Context) (content.Grammar, error)
}

// Deps are the collaborators shared by every shell.
type Deps struct {
	Content ContentProvider
	Store   store.Store
	Synth   speech.Synthesizer
	Logger  *observability.Logger
	// Tabs overrides DefaultTabs when set.
	Tabs []Tab
}

type tabEntry struct {
	tab     Tab
	state   RenderState
	section render.Section
}

// Shell is the view state of one session. It is safe for concurrent use.
type Shell struct {
	owner   string
	content ContentProvider
	store   store.Store
	player  *speech.Player
	logger  *observability.Logger

	// renders runs at most one first render per tab, outside mu.
	renders singleflight.Group

	mu     sync.Mutex
	tabs   []*tabEntry
	index  map[string]*tabEntry
	active string
	prefs  store.Preferences
	// generation is bumped by Reset so renders started before it are not
	// cached.
	generation uint64
}

// New builds the shell of owner, applies the stored preferences and
// activates the first tab.
func New(ctx context.Context, owner string, deps Deps) (result *Shell, err error) {
	ctx, span := observability.TraceShellFunction(ctx, "New", observability.AttributeOwnerID(owner))
	defer observability.FinishSpan(span, &err)

	if deps.Content == nil || deps.Store == nil {
		return nil, contextutils.WrapError(contextutils.ErrMissingRequired, "shell needs a content provider and a preference store")
	}
	if deps.Logger == nil {
		deps.Logger = observability.NewNopLogger()
	}
	if deps.Synth == nil {
		deps.Synth = speech.Disabled{}
	}
	tabs := deps.Tabs
	if len(tabs) == 0 {
		tabs = DefaultTabs()
	}

	s := &Shell{
		owner:   owner,
		content: deps.Content,
		store:   deps.Store,
		player:  speech.NewPlayer(deps.Synth),
		logger:  deps.Logger,
		index:   make(map[string]*tabEntry, len(tabs)),
	}
	for _, t := range tabs {
		if _, dup := s.index[t.ID]; dup {
			return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "duplicate tab %q", t.ID)
		}
		e := &tabEntry{tab: t, state: Unrendered}
		s.tabs = append(s.tabs, e)
		s.index[t.ID] = e
	}

	prefs, err := store.Load(ctx, s.store, owner)
	if err != nil {
		s.logger.Warn(ctx, "Failed to load preferences, using defaults", map[string]interface{}{
			"owner_id": owner,
			"error":    err.Error(),
		})
	}
	s.prefs = prefs

	if _, err := s.Activate(ctx, s.tabs[0].tab.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// Owner returns the session owner id.
func (s *Shell) Owner() string { return s.owner }

// Tabs returns the status of every tab in display order.
func (s *Shell) Tabs() []TabStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TabStatus, 0, len(s.tabs))
	for _, e := range s.tabs {
		out = append(out, TabStatus{Tab: e.tab, Active: e.tab.ID == s.active, State: e.state})
	}
	return out
}

// ActiveTab returns the id of the active tab.
func (s *Shell) ActiveTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// State returns the render state of tab.
func (s *Shell) State(tab string) (RenderState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.index[tab]
	if !ok {
		return Unrendered, false
	}
	return e.state, true
}

// Activate makes tab the active one and returns its section, rendering it
// on first activation. A failed render is kept and not retried.
//
// The render runs detached from ctx. When the caller gives up first it gets
// ErrTimeout, and the render still completes and is cached for the next
// activation.
func (s *Shell) Activate(ctx context.Context, tab string) (result render.Section, err error) {
	ctx, span := observability.TraceShellFunction(ctx, "Activate",
		observability.AttributeTab(tab),
		observability.AttributeOwnerID(s.owner),
	)
	defer observability.FinishSpan(span, &err)

	s.mu.Lock()
	e, ok := s.index[tab]
	if !ok {
		s.mu.Unlock()
		return render.Section{}, contextutils.WrapErrorf(contextutils.ErrTabNotFound, "unknown tab %q", tab)
	}
	s.active = tab
	if e.state == Rendered {
		section := e.section
		s.mu.Unlock()
		return section, nil
	}
	s.mu.Unlock()

	ch := s.renders.DoChan(tab, func() (interface{}, error) {
		renderCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.TabRenderTimeout)
		defer cancel()
		return s.renderOnce(renderCtx, e)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return render.Section{}, res.Err
		}
		return res.Val.(render.Section), nil
	case <-ctx.Done():
		return render.Section{}, contextutils.WrapErrorf(contextutils.ErrTimeout, "activation of %q abandoned: %v", tab, ctx.Err())
	}
}

// renderOnce builds the section of e unless it is already cached, and
// caches the result when no Reset happened meanwhile.
func (s *Shell) renderOnce(ctx context.Context, e *tabEntry) (render.Section, error) {
	tab := e.tab.ID

	s.mu.Lock()
	if e.state == Rendered {
		section := e.section
		s.mu.Unlock()
		return section, nil
	}
	generation := s.generation
	s.mu.Unlock()

	section, rerr := s.renderTab(ctx, tab)
	if rerr != nil {
		if errors.Is(rerr, context.Canceled) {
			// Cancelled renders stay Unrendered and are retried.
			return render.Section{}, contextutils.WrapErrorf(contextutils.ErrTimeout, "render of %q cancelled: %v", tab, rerr)
		}
		s.logger.Error(ctx, "Failed to render tab", rerr, map[string]interface{}{
			"tab":      tab,
			"owner_id": s.owner,
		})
		section = render.Failed(tab)
	}
	observability.RecordTabRendered(ctx, tab, rerr != nil)

	s.mu.Lock()
	if s.generation == generation {
		e.section = section
		e.state = Rendered
	}
	s.mu.Unlock()
	return section, nil
}

func (s *Shell) renderTab(ctx context.Context, tab string) (render.Section, error) {
	switch {
	case tab == render.TabPillars:
		pillars := grammar.Pillars()
		section := render.Pillars(pillars)
		observability.RecordParadigms(ctx, section.ItemCount(), "shell")
		return section, nil

	case tab == render.TabRegular || tab == render.TabIrregular:
		verbs, err := s.content.Verbs(ctx)
		if err != nil {
			return render.Section{}, err
		}
		verbType := content.VerbRegular
		if tab == render.TabIrregular {
			verbType = content.VerbIrregular
		}
		return render.Verbs(tab, verbs, verbType), nil

	case tab == render.TabConversations:
		convos, err := s.content.Conversations(ctx)
		if err != nil {
			return render.Section{}, err
		}
		return render.Conversations(convos), nil

	case tab == render.TabPrepositions, tab == render.TabPhrasalVerbs, IsListTab(tab):
		g, err := s.content.Grammar(ctx)
		if err != nil {
			return render.Section{}, err
		}
		switch tab {
		case render.TabPrepositions:
			return render.Prepositions(g.Prepositions), nil
		case render.TabPhrasalVerbs:
			return render.PhrasalVerbs(g.PhrasalVerbs), nil
		}
		items, ok := g.List(tab)
		if !ok {
			return render.Section{}, contextutils.WrapErrorf(contextutils.ErrContentUnavailable,
				"%s has no list %q", content.DocumentGrammar, tab)
		}
		return render.List(tab, items), nil
	}
	return render.ComingSoon(tab), nil
}

// Section returns the cached section of tab if it has been rendered.
func (s *Shell) Section(tab string) (render.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.index[tab]
	if !ok || e.state != Rendered {
		return render.Section{}, false
	}
	return e.section, true
}

// Reset marks every tab Unrendered so the next activation rebuilds it.
// The active tab is kept.
func (s *Shell) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	for _, e := range s.tabs {
		e.state = Unrendered
		e.section = render.Section{}
	}
}

// Search filters every rendered tab by query, in tab order. Tabs with no
// match are omitted.
func (s *Shell) Search(ctx context.Context, query string) []search.Result {
	_, span := observability.TraceShellFunction(ctx, "Search", observability.AttributeSearch(query))
	defer span.End()

	s.mu.Lock()
	sections := make([]render.Section, 0, len(s.tabs))
	for _, e := range s.tabs {
		if e.state == Rendered {
			sections = append(sections, e.section)
		}
	}
	s.mu.Unlock()

	return search.All(sections, search.NewQuery(query))
}

// Preferences returns the current preferences.
func (s *Shell) Preferences() store.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// SetPreferences validates p, saves it and applies it.
func (s *Shell) SetPreferences(ctx context.Context, p store.Preferences) (result store.Preferences, err error) {
	ctx, span := observability.TraceShellFunction(ctx, "SetPreferences", observability.AttributeOwnerID(s.owner))
	defer observability.FinishSpan(span, &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := store.Save(ctx, s.store, s.owner, p); err != nil {
		return s.prefs, err
	}
	s.prefs = p
	return p, nil
}

// ToggleTheme flips between the light and dark themes and saves the result.
func (s *Shell) ToggleTheme(ctx context.Context) (store.Preferences, error) {
	return s.toggle(ctx, "ToggleTheme", func(p *store.Preferences) {
		if p.Theme == store.ThemeDark {
			p.Theme = store.ThemeLight
		} else {
			p.Theme = store.ThemeDark
		}
	})
}

// ToggleTranslations flips translation visibility and saves the result.
func (s *Shell) ToggleTranslations(ctx context.Context) (store.Preferences, error) {
	return s.toggle(ctx, "ToggleTranslations", func(p *store.Preferences) {
		p.ShowTranslations = !p.ShowTranslations
	})
}

// toggle applies flip only when the store accepted the new value, so memory
// and storage never disagree.
func (s *Shell) toggle(ctx context.Context, name string, flip func(*store.Preferences)) (result store.Preferences, err error) {
	ctx, span := observability.TraceShellFunction(ctx, name, observability.AttributeOwnerID(s.owner))
	defer observability.FinishSpan(span, &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.prefs
	flip(&next)
	if err := store.Save(ctx, s.store, s.owner, next); err != nil {
		s.logger.Error(ctx, "Failed to save preferences", err, map[string]interface{}{"owner_id": s.owner})
		return s.prefs, err
	}
	s.prefs = next
	return next, nil
}

// Speak synthesizes text, cancelling any utterance of this session still
// in flight.
func (s *Shell) Speak(ctx context.Context, text string) ([]byte, error) {
	return s.player.Speak(ctx, text)
}

// Close stops any utterance in flight.
func (s *Shell) Close() {
	s.player.Stop()
}
