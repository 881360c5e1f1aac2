package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateFindDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "a@x.com", "t1"))
	require.NoError(t, s.Create(ctx, "b@x.com", "t2"))

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest.ID)
	assert.Equal(t, "b@x.com", latest.Email)

	got, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)

	_, err = s.FindByEmail(ctx, "A@X.COM")
	assert.ErrorIs(t, err, newsletter.ErrNotFound)

	require.NoError(t, s.DeleteByEmail(ctx, "a@x.com"))
	assert.ErrorIs(t, s.DeleteByEmail(ctx, "a@x.com"), newsletter.ErrNotFound)
}

func TestStore_DuplicateEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "a@x.com", "t1"))
	err := s.Create(ctx, "a@x.com", "t2")
	assert.ErrorIs(t, err, newsletter.ErrAlreadyRegistered)

	got, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
}

func TestStore_IDsNotReused(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "a@x.com", "t1"))
	require.NoError(t, s.DeleteByEmail(ctx, "a@x.com"))
	require.NoError(t, s.Create(ctx, "a@x.com", "t2"))

	got, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
}

func TestStore_LatestEmpty(t *testing.T) {
	_, err := NewStore().Latest(context.Background())
	assert.ErrorIs(t, err, newsletter.ErrNotFound)
}

func TestStore_ConcurrentDuplicateInsert(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Create(ctx, "race@x.com", fmt.Sprint(i)); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestStore_ListOrderedByID(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, e := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		require.NoError(t, s.Create(ctx, e, "t"))
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, int64(i+1), it.ID)
	}
	assert.Equal(t, "c@x.com", items[0].Email)
}

func TestStore_Acquire(t *testing.T) {
	s := NewStore()
	repo, release, err := s.Acquire(context.Background())
	require.NoError(t, err)
	defer release()
	assert.Same(t, s, repo)
}
