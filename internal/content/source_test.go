package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"studyapp/internal/config"
	contextutils "studyapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSSource_Fetch(t *testing.T) {
	src := NewFSSource(fstest.MapFS{
		"verbos.json": &fstest.MapFile{Data: []byte(`[]`)},
	}, "test")

	data, err := src.Fetch(context.Background(), DocumentVerbs)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = src.Fetch(context.Background(), DocumentGrammar)
	require.Error(t, err)
	assert.True(t, errors.Is(err, contextutils.ErrContentUnavailable))

	_, err = src.Fetch(context.Background(), "../secret.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contextutils.ErrInvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Fetch(ctx, DocumentVerbs)
	assert.True(t, errors.Is(err, contextutils.ErrContentUnavailable))
	assert.Equal(t, "test", src.String())
}

func TestEmbedded_HasEveryDocument(t *testing.T) {
	src := Embedded()
	for _, name := range Documents() {
		data, err := src.Fetch(context.Background(), name)
		require.NoError(t, err, name)
		assert.NoError(t, ValidateDocument(name, data), name)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocumentConversations), []byte(`[]`), 0o600))

	src := NewDirSource(dir)
	assert.Equal(t, dir, src.Dir())
	data, err := src.Fetch(context.Background(), DocumentConversations)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestHTTPSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/verbos.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		case "/data/gramatica.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src, err := NewHTTPSource(server.URL+"/data", time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/data/", src.String())

	data, err := src.Fetch(context.Background(), DocumentVerbs)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	for _, name := range []string{DocumentGrammar, DocumentConversations} {
		_, err = src.Fetch(context.Background(), name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, contextutils.ErrContentUnavailable), name)
	}
}

func TestNewHTTPSource_InvalidURL(t *testing.T) {
	_, err := NewHTTPSource("ftp://example.com/data", time.Second, nil)
	assert.True(t, errors.Is(err, contextutils.ErrInvalidInput))

	_, err = NewHTTPSource("://bad", time.Second, nil)
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ContentConfig
		wantErr *contextutils.AppError
		check   func(t *testing.T, s Source)
	}{
		{name: "default embedded", cfg: config.ContentConfig{}, check: func(t *testing.T, s Source) {
			assert.Equal(t, "embedded", s.String())
		}},
		{name: "dir", cfg: config.ContentConfig{Source: config.ContentSourceDir, Dir: "/tmp/study"}, check: func(t *testing.T, s Source) {
			_, ok := s.(*DirSource)
			assert.True(t, ok)
		}},
		{name: "http", cfg: config.ContentConfig{Source: config.ContentSourceHTTP, BaseURL: "https://example.com/"}, check: func(t *testing.T, s Source) {
			_, ok := s.(*HTTPSource)
			assert.True(t, ok)
		}},
		{name: "dir without path", cfg: config.ContentConfig{Source: config.ContentSourceDir}, wantErr: contextutils.ErrMissingRequired},
		{name: "http without url", cfg: config.ContentConfig{Source: config.ContentSourceHTTP}, wantErr: contextutils.ErrMissingRequired},
		{name: "unknown", cfg: config.ContentConfig{Source: "ftp"}, wantErr: contextutils.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSource(tt.cfg, nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, s)
				assert.True(t, errors.Is(err, tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}
