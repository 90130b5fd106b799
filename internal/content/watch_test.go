package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"studyapp/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_InvalidatesChangedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DocumentConversations)
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"One","lines":[{"eng":"Hi","por":"Oi"}]}]`), 0o600))

	repo := NewRepository(NewDirSource(dir), nil)
	convos, err := repo.Conversations(context.Background())
	require.NoError(t, err)
	require.Equal(t, "One", convos[0].Title)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, repo, observability.NewNopLogger(), func(name string) { changed <- name })
	}()

	// Give the watcher time to register before writing.
	require.Eventually(t, func() bool {
		require.NoError(t, os.WriteFile(path, []byte(`[{"title":"Two","lines":[{"eng":"Hi","por":"Oi"}]}]`), 0o600))
		select {
		case name := <-changed:
			return name == DocumentConversations
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		repo.Invalidate(DocumentConversations)
		got, err := repo.Conversations(context.Background())
		return err == nil && got[0].Title == "Two"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), NewRepository(Embedded(), nil), observability.NewNopLogger(), nil)
	assert.Error(t, err)
}
