package content

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"studyapp/internal/config"
	"studyapp/internal/observability"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Repository fetches, validates and caches decoded documents. Only
// successful loads are cached; a failed document is fetched again on the
// next call.
//
// A load shared by several callers runs detached from any one caller's
// cancellation, bounded by the load timeout instead.
type Repository struct {
	source  Source
	logger  *observability.Logger
	timeout time.Duration

	mu     sync.RWMutex
	cache  map[string]interface{}
	flight singleflight.Group
}

// NewRepository creates a repository reading from source.
func NewRepository(source Source, logger *observability.Logger) *Repository {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Repository{
		source:  source,
		logger:  logger,
		timeout: config.DefaultHTTPTimeout,
		cache:   make(map[string]interface{}),
	}
}

// SetLoadTimeout bounds every fetch-and-decode. Non-positive values are
// ignored.
func (r *Repository) SetLoadTimeout(d time.Duration) {
	if d > 0 {
		r.timeout = d
	}
}

// Source returns the underlying document source.
func (r *Repository) Source() Source { return r.source }

// Verbs returns the decoded verbos.json.
func (r *Repository) Verbs(ctx context.Context) ([]Verb, error) {
	v, err := r.load(ctx, DocumentVerbs)
	if err != nil {
		return nil, err
	}
	return v.([]Verb), nil
}

// Conversations returns the decoded conversacoes.json.
func (r *Repository) Conversations(ctx context.Context) ([]Conversation, error) {
	v, err := r.load(ctx, DocumentConversations)
	if err != nil {
		return nil, err
	}
	return v.([]Conversation), nil
}

// Grammar returns the decoded gramatica.json.
func (r *Repository) Grammar(ctx context.Context) (Grammar, error) {
	v, err := r.load(ctx, DocumentGrammar)
	if err != nil {
		return Grammar{}, err
	}
	return v.(Grammar), nil
}

// Invalidate drops the cached copy of the named documents, or of every
// document when no name is given.
func (r *Repository) Invalidate(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(names) == 0 {
		r.cache = make(map[string]interface{})
		return
	}
	for _, n := range names {
		delete(r.cache, n)
	}
}

// Preload loads every document in parallel. A failing document does not
// stop the others; all failures are returned joined.
func (r *Repository) Preload(ctx context.Context) error {
	docs := Documents()
	errs := make([]error, len(docs))

	var g errgroup.Group
	for i, name := range docs {
		g.Go(func() error {
			if _, err := r.load(ctx, name); err != nil {
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (r *Repository) load(ctx context.Context, name string) (result interface{}, err error) {
	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ctx, span := observability.TraceContentFunction(ctx, "load", observability.AttributeDocument(name))
	defer observability.FinishSpan(span, &err)

	ch := r.flight.DoChan(name, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		doc, err := r.fetchAndDecode(loadCtx, name)
		observability.RecordContentFetch(loadCtx, name, err == nil)
		if err != nil {
			r.logger.Error(loadCtx, "Failed to load content document", err, map[string]interface{}{
				"document": name,
				"source":   r.source.String(),
			})
			return nil, err
		}
		r.mu.Lock()
		r.cache[name] = doc
		r.mu.Unlock()
		r.logger.Debug(loadCtx, "Loaded content document", map[string]interface{}{
			"document": name,
			"source":   r.source.String(),
		})
		return doc, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		// The load carries on for the other callers and fills the cache.
		return nil, ctx.Err()
	}
}

func (r *Repository) fetchAndDecode(ctx context.Context, name string) (interface{}, error) {
	data, err := r.source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return Decode(name, data)
}

// Decode validates data against the schema of document name and decodes
// it into the matching record type.
func Decode(name string, data []byte) (interface{}, error) {
	if err := ValidateDocument(name, data); err != nil {
		return nil, err
	}

	switch name {
	case DocumentVerbs:
		var verbs []Verb
		if err := json.Unmarshal(data, &verbs); err != nil {
			return nil, unavailable(name, err)
		}
		if err := ValidateVerbs(verbs); err != nil {
			return nil, err
		}
		return verbs, nil
	case DocumentConversations:
		var convos []Conversation
		if err := json.Unmarshal(data, &convos); err != nil {
			return nil, unavailable(name, err)
		}
		if err := ValidateConversations(convos); err != nil {
			return nil, err
		}
		return convos, nil
	case DocumentGrammar:
		var g Grammar
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, unavailable(name, err)
		}
		if err := ValidateGrammar(g); err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, unavailable(name, errors.New("unknown document"))
}
