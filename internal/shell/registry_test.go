package shell

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studyapp/internal/store"
	contextutils "studyapp/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(ttl time.Duration) (*Registry, *time.Time) {
	r := NewRegistry(Deps{Content: &fakeContent{}, Store: store.NewMemoryStore()}, ttl)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRegistry_GetReusesShell(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	ctx := context.Background()
	owner := NewOwnerID()

	a, err := r.Get(ctx, owner)
	require.NoError(t, err)
	b, err := r.Get(ctx, owner)
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := r.Get(ctx, NewOwnerID())
	require.NoError(t, err)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_InvalidOwner(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	_, err := r.Get(context.Background(), "not-a-uuid")
	assert.True(t, errors.Is(err, contextutils.ErrInvalidFormat))
	assert.Zero(t, r.Len())
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	owner := NewOwnerID()

	shells := make([]*Shell, 16)
	var wg sync.WaitGroup
	for i := range shells {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sh, err := r.Get(context.Background(), owner)
			assert.NoError(t, err)
			shells[i] = sh
		}(i)
	}
	wg.Wait()
	for _, sh := range shells[1:] {
		assert.Same(t, shells[0], sh)
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r, now := newTestRegistry(30 * time.Minute)
	ctx := context.Background()
	idle, active := NewOwnerID(), NewOwnerID()

	_, err := r.Get(ctx, idle)
	require.NoError(t, err)
	*now = now.Add(20 * time.Minute)
	_, err = r.Get(ctx, active)
	require.NoError(t, err)

	*now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep(ctx))
	assert.Equal(t, 1, r.Len())

	// The swept owner gets a fresh shell.
	_, err = r.Get(ctx, idle)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ResetAll(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	sh, err := r.Get(context.Background(), NewOwnerID())
	require.NoError(t, err)

	r.ResetAll()
	state, ok := sh.State(sh.ActiveTab())
	require.True(t, ok)
	assert.Equal(t, Unrendered, state)
}

func TestRegistry_RunStops(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
