package content

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"studyapp/internal/config"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

//go:embed data/*.json
var dataFS embed.FS

// maxDocumentSize bounds a single document read from any source.
const maxDocumentSize = 8 << 20

// Source fetches the raw bytes of a named document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	String() string
}

// unavailable reports a document that could not be fetched or decoded.
func unavailable(name string, err error) error {
	return contextutils.NewAppErrorWithCause(
		contextutils.ErrorCodeContentUnavailable,
		contextutils.SeverityError,
		fmt.Sprintf("failed to load %s", name),
		err.Error(),
		err,
	)
}

// FSSource reads documents from an fs.FS.
type FSSource struct {
	fsys  fs.FS
	label string
}

// NewFSSource wraps fsys; label is used in logs.
func NewFSSource(fsys fs.FS, label string) *FSSource {
	return &FSSource{fsys: fsys, label: label}
}

// Embedded returns the documents compiled into the binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		// data/ is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return NewFSSource(sub, "embedded")
}

// Fetch implements Source.
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "invalid document name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable(name, err)
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		return nil, unavailable(name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize))
	if err != nil {
		return nil, unavailable(name, err)
	}
	return data, nil
}

func (s *FSSource) String() string { return s.label }

// DirSource reads documents from a directory on disk.
type DirSource struct {
	*FSSource
	dir string
}

// NewDirSource serves documents from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{FSSource: NewFSSource(os.DirFS(dir), "dir:"+dir), dir: dir}
}

// Dir returns the directory being served.
func (s *DirSource) Dir() string { return s.dir }

// HTTPSource fetches documents relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
	logger *observability.Logger
}

// NewHTTPSource creates a source for baseURL. The client carries otelhttp
// instrumentation so every fetch shows up as a client span.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *observability.Logger) (*HTTPSource, error) {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "invalid content base url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unsupported content url scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		),
	}
	return &HTTPSource{base: u, client: client, logger: logger}, nil
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, name string) (result []byte, err error) {
	ctx, span := observability.TraceContentFunction(ctx, "http_fetch", observability.AttributeDocument(name))
	defer observability.FinishSpan(span, &err)

	if !fs.ValidPath(name) {
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "invalid document name %q", name)
	}
	target := s.base.ResolveReference(&url.URL{Path: name})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, unavailable(name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, unavailable(name, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Warn(ctx, "Failed to close content response body", map[string]interface{}{
				"document": name,
				"error":    cerr.Error(),
			})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable(name, fmt.Errorf("GET %s: %s", target, resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, unavailable(name, err)
	}
	return data, nil
}

func (s *HTTPSource) String() string { return s.base.String() }

// NewSource builds the source selected by cfg.
func NewSource(cfg config.ContentConfig, logger *observability.Logger) (Source, error) {
	switch cfg.Source {
	case "", config.ContentSourceEmbedded:
		return Embedded(), nil
	case config.ContentSourceDir:
		if cfg.Dir == "" {
			return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "content.dir is required for the %s source", cfg.Source)
		}
		return NewDirSource(cfg.Dir), nil
	case config.ContentSourceHTTP:
		if cfg.BaseURL == "" {
			return nil, contextutils.WrapErrorf(contextutils.ErrMissingRequired, "content.base_url is required for the %s source", cfg.Source)
		}
		src, err := NewHTTPSource(cfg.BaseURL, cfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown content source %q", cfg.Source)
	}
}
